package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/parking/internal/server/models"
)

var (
	confirmTmpl = template.Must(template.New("confirm").Parse(`<p>Hola {{.Name}},</p>
<p>Confirma tu cuenta en el sistema de parqueaderos haciendo clic en el siguiente enlace:</p>
<p><a href="{{.Link}}">Confirmar cuenta</a></p>
<p>Si no creaste esta cuenta puedes ignorar este mensaje.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<p>Hola {{.Name}},</p>
<p>Recibimos una solicitud para restablecer tu contraseña. Usa el siguiente enlace para crear una nueva:</p>
<p><a href="{{.Link}}">Restablecer contraseña</a></p>`))

	spacesTmpl = template.Must(template.New("spaces").Parse(`<p>Hola {{.Name}},</p>
{{if .Spaces}}<p>Estos son los parqueaderos disponibles en este momento:</p>
<table border="1" cellpadding="4">
<tr><th>Número</th><th>Bloque</th><th>Tipo</th><th>Dimensiones</th></tr>
{{range .Spaces}}<tr><td>{{.Number}}</td><td>{{.Block}}</td><td>{{.Kind}}</td><td>{{.Dimensions}}</td></tr>
{{end}}</table>{{else}}<p>No hay parqueaderos disponibles en este momento.</p>{{end}}`))
)

// Composer renders messages. Links point at baseURL.
type Composer struct {
	baseURL string
}

func NewComposer(baseURL string) *Composer {
	return &Composer{baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Composer) link(path, token string) string {
	return c.baseURL + path + url.PathEscape(token)
}

// Confirmation builds the account confirmation message carrying token.
func (c *Composer) Confirmation(to, name, token string) (Message, error) {
	return render(confirmTmpl, to, "Confirma tu cuenta", map[string]any{
		"Name": name,
		"Link": c.link("/api/usuarios/confirmar-email/", token),
	})
}

// PasswordReset builds the password reset message carrying token.
func (c *Composer) PasswordReset(to, name, token string) (Message, error) {
	return render(resetTmpl, to, "Restablece tu contraseña", map[string]any{
		"Name": name,
		"Link": c.link("/api/usuarios/recuperar-password/", token),
	})
}

// AvailableSpaces builds the notice listing every space in spaces.
func (c *Composer) AvailableSpaces(to, name string, spaces []models.ParkingSpace) (Message, error) {
	return render(spacesTmpl, to, "Parqueaderos disponibles", map[string]any{
		"Name":   name,
		"Spaces": spaces,
	})
}

func render(t *template.Template, to, subject string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return Message{To: to, Subject: subject, HTMLBody: buf.String()}, nil
}
