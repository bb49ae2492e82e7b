package controller

import (
	"errors"
	"net/http"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/log"
	"github.com/adammarchelino/portfolio/service"
	"github.com/adammarchelino/portfolio/service/dto"
	"github.com/adammarchelino/portfolio/site"
	"github.com/labstack/echo/v4"
)

const contactAnchor = "/#contact"

func GetPageFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		view, err := srv.Page(c.Request().Context(), sessionKey(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Render(http.StatusOK, site.PageTemplate, view)
	}
}

// GetContactFormFunc handles the plain form post; the outcome is shown by the status banner
func GetContactFormFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		msg := new(dto.Message)
		if err := c.Bind(msg); err != nil {
			return err
		}

		_, err := srv.Submit(c.Request().Context(), sessionKey(c), *msg)
		if errors.Is(err, service.ErrUnknownVisitor) || errors.Is(err, service.ErrClosed) {
			return serviceError(c, err)
		}

		return c.Redirect(http.StatusSeeOther, contactAnchor)
	}
}

func GetToggleMenuFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := srv.ToggleMenu(c.Request().Context(), sessionKey(c)); err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
}

func GetScrollToFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		anchor, err := srv.ScrollTo(c.Request().Context(), sessionKey(c), c.Param("id"), c.QueryParam("mobile") == "1")
		if errors.Is(err, site.ErrUnknownSection) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		if err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(http.StatusSeeOther, "/"+anchor)
	}
}

// GetContact godoc
// @Summary Contact form state
// @Description Returns the visitor's form fields, status and the message feed, newest first
// @Produce json
// @Success 200 {object} dto.ContactState
// @Failure 404 "session not found"
// @Router /api/contact [get]
func GetContactFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := srv.Contact(c.Request().Context(), sessionKey(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, state)
	}
}

// SubmitContact godoc
// @Summary Send message
// @Description Submits a contact message. Blocks until the message store answers
// @Accept json
// @Produce json
// @Param message body dto.Message true "Message"
// @Success 200 {object} dto.ContactState
// @Failure 400 "error description"
// @Failure 409 "a submission is already in flight"
// @Failure 502 "message store failure"
// @Router /api/contact [post]
func GetSubmitContactFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		msg := new(dto.Message)
		if err := c.Bind(msg); err != nil {
			return err
		}

		state, err := srv.Submit(c.Request().Context(), sessionKey(c), *msg)
		if err != nil {
			switch err.(type) {
			case *service.InvalidPayloadErr:
				return c.String(http.StatusBadRequest, err.Error())
			case *service.BusyErr:
				return c.String(http.StatusConflict, err.Error())
			}
			if errors.Is(err, service.ErrUnknownVisitor) || errors.Is(err, service.ErrClosed) {
				return serviceError(c, err)
			}
			log.ErrIfErr("Error submitting message", err)
			return c.String(http.StatusBadGateway, contact.StatusFailed)
		}

		return c.JSON(http.StatusOK, state)
	}
}

// SignOut godoc
// @Summary End anonymous session
// @Description Ends the visitor's anonymous session, the message feed is hidden afterwards
// @Produce json
// @Success 200 {object} dto.Session
// @Failure 404 "session not found"
// @Router /api/session/signout [post]
func GetSignOutFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := srv.SignOut(c.Request().Context(), sessionKey(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, session)
	}
}

// Health godoc
// @Summary Liveness probe
// @Produce plain
// @Success 200 "OK"
// @Router /healthz [get]
func GetHealthFunc() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
}

func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownVisitor):
		return c.String(http.StatusNotFound, "Session not found")
	case errors.Is(err, service.ErrClosed):
		return c.String(http.StatusServiceUnavailable, "Service is shutting down")
	default:
		log.ErrIfErr("Request failed", err)
		return c.String(http.StatusInternalServerError, "System malfunction. Please, try later")
	}
}
