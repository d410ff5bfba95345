package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa/backoffice/core/cvrequest"
)

type cvRequestApi struct {
	svc *cvrequest.Service
}

func registerCVRequestAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *cvrequest.Service) {
	api := cvRequestApi{svc: svc}

	cg := g.Group("/cv-requests", jwt, adminMiddleware())
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple)

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/status", api.updateStatus)
	dg.POST("/tailored-cv", api.attachTailoredCV)
}

// Handlers

func (api *cvRequestApi) create(ctx echo.Context) error {
	var data cvrequest.NewCVRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCVRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating cv request")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *cvRequestApi) query(ctx echo.Context) error {
	filter := new(cvrequest.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []cvrequest.CVRequest{})
	}

	reqs, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying cv requests")
	}
	if reqs == nil {
		reqs = []cvrequest.CVRequest{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *cvRequestApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *cvRequestApi) updateStatus(ctx echo.Context) error {
	var data UpdateWorkStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWorkStatusRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	r, err := api.svc.UpdateStatus(ctx.Request().Context(), claims.Subject, ctx.Param("id"), cvrequest.Status(data.Status))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *cvRequestApi) attachTailoredCV(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a tailored CV file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	r, err := api.svc.AttachTailoredCV(
		ctx.Request().Context(), claims.Subject, ctx.Param("id"),
		fh.Filename, fh.Header.Get("Content-Type"), f,
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *cvRequestApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting cv requests")
	}
	return ctx.NoContent(http.StatusNoContent)
}
