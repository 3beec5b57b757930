package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/workspace"
)

type generateResponse struct {
	Input lessonplan.LessonInput      `json:"input"`
	Plan  lessonplan.GeneratedContent `json:"plan"`
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string           `json:"error"`
	Kind   string           `json:"kind,omitempty"`
	Fields []fieldErrorJSON `json:"fields,omitempty"`
}

func (s *Server) listPlans(c *gin.Context) {
	plans := s.sess.Plans()
	if plans == nil {
		plans = []lessonplan.SavedPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (s *Server) generateAPI(c *gin.Context) {
	var in lessonplan.LessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	st, err := s.sess.Generate(c.Request.Context(), in)
	if err != nil {
		status, body := generateFailure(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, generateResponse{Input: st.Draft.Input, Plan: st.Draft.Content})
}

func (s *Server) acceptAPI(c *gin.Context) {
	saved, err := s.sess.Accept()
	if errors.Is(err, workspace.ErrNoDraft) {
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) deletePlanAPI(c *gin.Context) {
	if !s.removePlan(c.Param("id")) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "plan not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) removePlan(id string) bool {
	for _, p := range s.sess.Plans() {
		if p.ID == id {
			s.sess.Remove(id)
			return true
		}
	}
	return false
}

// generateFailure maps a Session.Generate error to a status and body.
func generateFailure(err error) (int, errorResponse) {
	if errors.Is(err, workspace.ErrBusy) {
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}
	if fields := fieldErrors(err); len(fields) > 0 {
		return http.StatusBadRequest, errorResponse{Error: "invalid lesson input", Fields: fields}
	}
	if kind := generator.KindOf(err); kind != 0 {
		return http.StatusBadGateway, errorResponse{Error: generator.UserMessage, Kind: kind.String()}
	}
	return http.StatusInternalServerError, errorResponse{Error: generator.UserMessage}
}

func fieldErrors(err error) []fieldErrorJSON {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var out []fieldErrorJSON
	for _, e := range errs {
		var fe *lessonplan.FieldError
		if errors.As(e, &fe) {
			out = append(out, fieldErrorJSON{Field: string(fe.Field), Message: fe.Message})
		}
	}
	return out
}
