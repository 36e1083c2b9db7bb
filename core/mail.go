package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}

	// EmailTemplates renders EmailMessage templates from a directory of
	// `<name>.txt` and `<name>.gohtml` files sharing `_base.txt` / `_base.gohtml` layouts.
	EmailTemplates struct {
		fsys fs.FS
		dir  string
		ctx  ContextData
	}
)

func NewEmailTemplates(fsys fs.FS, dir string, conf *Config) *EmailTemplates {
	return &EmailTemplates{
		fsys: fsys,
		dir:  dir,
		ctx:  ContextData{AppName: conf.AppName, FrontendBaseURL: conf.FrontendBaseURL},
	}
}

func (et *EmailTemplates) contextData(m *EmailMessage) ContextData {
	ctx := et.ctx
	ctx.Data = m.TemplateData
	return ctx
}

func (et *EmailTemplates) exists(file string) bool {
	_, err := fs.Stat(et.fsys, path.Join(et.dir, file))
	return err == nil
}

func (et *EmailTemplates) renderText(m *EmailMessage) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	file := m.TemplateName + ".txt"
	if m.TemplateName == "" || !et.exists(file) {
		return nil
	}
	tmpl, err := texttmpl.ParseFS(et.fsys, path.Join(et.dir, "_base.txt"), path.Join(et.dir, file))
	if err != nil {
		return errors.Wrapf(err, "parsing %s", file)
	}
	var buff bytes.Buffer
	if err := tmpl.Option("missingkey=error").Execute(&buff, et.contextData(m)); err != nil {
		return errors.Wrapf(err, "executing %s", file)
	}
	m.TextContent = strings.TrimSpace(buff.String())
	return nil
}

func (et *EmailTemplates) renderHTML(m *EmailMessage) error {
	file := m.TemplateName + ".gohtml"
	if m.TemplateName == "" || !et.exists(file) {
		return nil
	}
	tmpl, err := htmltmpl.ParseFS(et.fsys, path.Join(et.dir, "_base.gohtml"), path.Join(et.dir, file))
	if err != nil {
		return errors.Wrapf(err, "parsing %s", file)
	}
	var buff bytes.Buffer
	if err := tmpl.Option("missingkey=error").Execute(&buff, et.contextData(m)); err != nil {
		return errors.Wrapf(err, "executing %s", file)
	}
	m.HTMLContent = buff.String()
	return nil
}

// Render fills in TextContent and HTMLContent.
func (et *EmailTemplates) Render(m *EmailMessage) error {
	if err := et.renderText(m); err != nil {
		return err
	}
	return et.renderHTML(m)
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
