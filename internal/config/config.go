// Package config loads planbook settings from defaults, an optional YAML
// file and PLANBOOK_* environment variables, in that order.
package config

import (
	"time"

	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
)

// Config is the root configuration.
type Config struct {
	LLM        llm.Config       `mapstructure:"llm"`
	Generation generator.Config `mapstructure:"generation"`
	School     SchoolConfig     `mapstructure:"school"`
	Export     ExportConfig     `mapstructure:"export"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`

	// ProviderExplicit is set when llm.provider came from the file or
	// the environment rather than the built-in default.
	ProviderExplicit bool `mapstructure:"-"`
}

// SchoolConfig prefills the lesson form. Empty fields keep the built-in
// sample values.
type SchoolConfig struct {
	Name        string `mapstructure:"name"`
	Address     string `mapstructure:"address"`
	TeacherName string `mapstructure:"teacher_name"`
	Term        string `mapstructure:"term"`
	Session     string `mapstructure:"session"`
	Subject     string `mapstructure:"subject"`
	ClassName   string `mapstructure:"class_name"`
	Duration    string `mapstructure:"duration"`
	Week        int    `mapstructure:"week"`
}

// ExportConfig controls the export adapters.
type ExportConfig struct {
	Dir          string `mapstructure:"dir"`
	Logo         string `mapstructure:"logo"`
	PrintCommand string `mapstructure:"print_command"`
	PDFEnabled   bool   `mapstructure:"pdf_enabled"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File receives logs instead of stderr. The TUI always logs to a file.
	File string `mapstructure:"file"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// FormDefaults returns the initial form values.
func (c SchoolConfig) FormDefaults() lessonplan.LessonInput {
	in := lessonplan.DefaultInput()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&in.SchoolName, c.Name)
	set(&in.Address, c.Address)
	set(&in.TeacherName, c.TeacherName)
	set(&in.Session, c.Session)
	set(&in.Subject, c.Subject)
	set(&in.ClassName, c.ClassName)
	set(&in.Duration, c.Duration)
	if t, err := lessonplan.ParseTerm(c.Term); err == nil && t != "" {
		in.Term = t
	}
	if c.Week > 0 {
		in.Week = c.Week
	}
	return in
}
