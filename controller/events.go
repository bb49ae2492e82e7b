package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/adammarchelino/portfolio/service"
	"github.com/adammarchelino/portfolio/service/dto"
	"github.com/labstack/echo/v4"
)

const stateEvent = "state"

// ContactEvents godoc
// @Summary Contact form events
// @Description Server-sent events stream. Every change of the form state or the message feed is sent as a "state" event
// @Produce text/event-stream
// @Success 200 {object} dto.ContactState
// @Failure 404 "session not found"
// @Router /api/contact/events [get]
func GetContactEventsFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		states, cancel, err := srv.Watch(ctx, sessionKey(c))
		if err != nil {
			return serviceError(c, err)
		}
		defer cancel()

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set("Cache-Control", "no-cache")
		res.Header().Set("Connection", "keep-alive")
		res.WriteHeader(http.StatusOK)
		res.Flush()

		for {
			select {
			case <-ctx.Done():
				return nil
			case state, ok := <-states:
				if !ok {
					return nil
				}
				if err := writeEvent(res, stateEvent, dto.FromState(state)); err != nil {
					//client went away
					return nil
				}
				res.Flush()
			}
		}
	}
}

func writeEvent(w io.Writer, name string, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, b)
	return err
}
