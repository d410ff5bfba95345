package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa/backoffice/core"
	"github.com/darasa/backoffice/core/meeting"
	"github.com/darasa/backoffice/core/session"
)

type sessionApi struct {
	svc *session.Service
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *session.Service) {
	api := sessionApi{svc: svc}

	sg := g.Group("/sessions", jwt, adminMiddleware())
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.DELETE("", api.destroyMultiple)
	sg.GET("/demo-link", api.demoLink)
	sg.POST("/classify-link", api.classifyLink)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/meeting-link", api.assignLink)
	dg.PUT("/status", api.updateStatus)
	dg.POST("/cancellation", api.requestCancellation)
	dg.PUT("/cancellation", api.adjudicate)
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	var data session.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *sessionApi) query(ctx echo.Context) error {
	filter := new(session.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []session.Session{})
	}

	sessions, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) assignLink(ctx echo.Context) error {
	var data AssignLinkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignLinkRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	s, err := api.svc.AssignLink(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.Link)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) updateStatus(ctx echo.Context) error {
	var data UpdateSessionStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSessionStatusRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	s, err := api.svc.UpdateStatus(ctx.Request().Context(), claims.Subject, ctx.Param("id"), session.Status(data.Status), data.Notes)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) requestCancellation(ctx echo.Context) error {
	var data CancellationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CancellationRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	s, err := api.svc.RequestCancellation(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) adjudicate(ctx echo.Context) error {
	var data AdjudicationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdjudicationRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	s, err := api.svc.Adjudicate(
		ctx.Request().Context(), claims.Subject, ctx.Param("id"),
		session.Decision(data.Decision), data.PenaltyOverride, data.Notes,
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) demoLink(ctx echo.Context) error {
	platform := meeting.Platform(ctx.QueryParam("platform"))
	return ctx.JSON(http.StatusOK, DemoLinkResponse{Link: meeting.GenerateDemoLink(platform)})
}

func (api *sessionApi) classifyLink(ctx echo.Context) error {
	var data ClassifyLinkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassifyLinkRequest")
	}
	return ctx.JSON(http.StatusOK, meeting.Classify(data.Link))
}

// Requests & Responses

type (
	AssignLinkRequest struct {
		Link string `json:"link" validate:"required"`
	}

	UpdateSessionStatusRequest struct {
		Status string `json:"status" validate:"required"`
		Notes  string `json:"notes"`
	}

	CancellationRequest struct {
		Reason string `json:"reason" validate:"required"`
	}

	AdjudicationRequest struct {
		Decision        string `json:"decision" validate:"required,oneof=approved rejected"`
		PenaltyOverride int    `json:"penalty_override" validate:"omitempty,min=0"`
		Notes           string `json:"notes"`
	}

	ClassifyLinkRequest struct {
		Link string `json:"link"`
	}

	DemoLinkResponse struct {
		Link string `json:"link"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func (r *AssignLinkRequest) Validate() error {
	r.Link = core.CleanString(r.Link)
	return core.Validate.Struct(r)
}

func (r *UpdateSessionStatusRequest) Validate() error {
	r.Status = core.CleanString(r.Status, true /* lower */)
	r.Notes = core.CleanString(r.Notes)
	return core.Validate.Struct(r)
}

func (r *CancellationRequest) Validate() error {
	r.Reason = core.CleanString(r.Reason)
	return core.Validate.Struct(r)
}

func (r *AdjudicationRequest) Validate() error {
	r.Decision = core.CleanString(r.Decision, true /* lower */)
	r.Notes = core.CleanString(r.Notes)
	return core.Validate.Struct(r)
}
