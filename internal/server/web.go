package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/workspace"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

type formField struct {
	Key         lessonplan.FieldKey
	Label       string
	Value       string
	Placeholder string
	Required    bool
	IsTerm      bool
	IsWeek      bool
	Options     []lessonplan.Term
}

type bannerView struct {
	Class string
	Text  string
}

type indexView struct {
	Stylesheet template.CSS
	Banner     *bannerView
	Fields     []formField
	TermValue  lessonplan.Term
	Generating bool
	Draft      template.HTML
	DraftTopic string
	Plans      []lessonplan.SavedPlan
	Collection template.HTML
}

func (s *Server) index(c *gin.Context) {
	st := s.sess.State()
	plans := s.sess.Plans()

	view := indexView{
		Stylesheet: template.CSS(document.Stylesheet),
		TermValue:  st.Form.Term,
		Generating: st.Generating,
		Plans:      plans,
	}
	for _, f := range lessonplan.Fields {
		ff := formField{
			Key:         f.Key,
			Label:       f.Label,
			Value:       st.Form.Get(f.Key),
			Placeholder: f.Placeholder,
			Required:    f.Required,
			IsTerm:      f.Key == lessonplan.FieldTerm,
			IsWeek:      f.Key == lessonplan.FieldWeek,
		}
		if ff.IsTerm {
			ff.Options = lessonplan.Terms
		}
		view.Fields = append(view.Fields, ff)
	}

	switch st.Banner.Kind {
	case workspace.BannerSuccess:
		view.Banner = &bannerView{Class: "success", Text: st.Banner.Text}
	case workspace.BannerError:
		view.Banner = &bannerView{Class: "error", Text: st.Banner.Text}
	}

	var err error
	if st.Draft != nil {
		view.DraftTopic = st.Draft.Input.Topic
		view.Draft, err = document.HTML(s.renderer.RenderSingle(st.Draft.Input, st.Draft.Content))
		if err != nil {
			s.fail(c, err)
			return
		}
	}
	if len(plans) > 0 {
		view.Collection, err = document.HTML(s.renderer.RenderCombined(plans))
		if err != nil {
			s.fail(c, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, view); err != nil {
		s.fail(c, fmt.Errorf("render index: %w", err))
		return
	}
	// Banners are shown once.
	if view.Banner != nil {
		s.sess.Dispatch(workspace.BannerCleared{})
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) generateForm(c *gin.Context) {
	var errs []error
	for _, f := range lessonplan.Fields {
		if v, ok := c.GetPostForm(string(f.Key)); ok {
			if err := s.sess.Edit(f.Key, v); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.sess.Dispatch(workspace.InputRejected{Err: err})
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	_, err := s.sess.Generate(c.Request.Context(), s.sess.State().Form)
	if err != nil && generateFailureIsInput(err) {
		s.sess.Dispatch(workspace.InputRejected{Err: err})
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// generateFailureIsInput reports errors the reducer has not already
// turned into a banner.
func generateFailureIsInput(err error) bool {
	return errors.Is(err, workspace.ErrBusy) || len(fieldErrors(err)) > 0
}

func (s *Server) acceptDraft(c *gin.Context) {
	if _, err := s.sess.Accept(); err != nil {
		s.log.Warn("accept without draft", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) discardDraft(c *gin.Context) {
	s.sess.Discard()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) deletePlanForm(c *gin.Context) {
	s.removePlan(c.Param("id"))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) exportDocument(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	st := s.sess.State()
	job := export.Job{Subject: st.Form.Subject, Scope: export.Scope(c.DefaultQuery("scope", string(export.ScopeCollection)))}
	switch job.Scope {
	case export.ScopeDraft:
		if st.Draft == nil {
			c.String(http.StatusNotFound, "no generated plan to export")
			return
		}
		job.Doc = s.renderer.RenderSingle(st.Draft.Input, st.Draft.Content)
		job.PlanCount = 1
	case export.ScopeCollection:
		plans := s.sess.Plans()
		if len(plans) == 0 {
			c.String(http.StatusNotFound, "the weekly collection is empty")
			return
		}
		job.Doc = s.renderer.RenderCombined(plans)
		job.PlanCount = len(plans)
	default:
		c.String(http.StatusBadRequest, "scope must be draft or collection")
		return
	}

	d, err := s.exporter.Export(c.Request.Context(), format, job)
	if err != nil {
		s.fail(c, err)
		return
	}

	if d.Printed {
		page, err := export.PrintablePage(job.Doc, true)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.File.Name}))
	c.Data(http.StatusOK, d.File.ContentType, d.File.Data)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, "internal server error")
}

func (s *Server) serveLogo(c *gin.Context) {
	if s.logo == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "max-age=3600")
	c.Data(http.StatusOK, s.logo.MIME, s.logo.Data)
}
