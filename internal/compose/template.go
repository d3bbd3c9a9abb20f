package compose

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
)

// headerGradients styles the email header by escalation level.
var headerGradients = map[int]template.CSS{
	1: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	2: "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	3: "linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
}

const bodyTemplate = `<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: {{.HeaderGradient}}; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
        .missing-fields { background: #fff; padding: 15px; border-left: 4px solid #f59e0b; margin: 20px 0; border-radius: 5px; }
        .missing-fields ul { list-style: none; padding: 0; }
        .missing-fields li { padding: 8px 0; }
        .benefits { background: #fff; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .benefits ul { list-style: none; padding: 0; }
        .benefits li { padding: 5px 0; }
        .cta-button { display: inline-block; background: #4285F4; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin: 20px 0; }
        .footer { text-align: center; color: #666; margin-top: 30px; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2 style="margin:0;">{{.OrgName}}</h2>
        </div>
        <div class="content">
            <p>Dear <strong>{{.Name}}</strong>,</p>
            <p>Greetings from {{.OrgName}}! 👋</p>

            <p>We noticed that your student profile is <strong>{{.Completion}}% complete</strong>, and a few important details are still missing. Please take a moment to update them so we can ensure your records are accurate and you get full access to all academic resources.</p>

            <div class="missing-fields">
                <p><strong>🧾 Missing fields:</strong></p>
                <ul>{{range .MissingLabels}}<li>✦ <strong>{{.}}</strong></li>{{end}}</ul>
            </div>

            <div class="benefits">
                <p><strong>Completing your profile helps you stay connected with:</strong></p>
                <ul>
                    <li>🎯 Class schedules and live sessions</li>
                    <li>📚 Study materials and announcements</li>
                    <li>🧩 Interactive academic activities</li>
                </ul>
            </div>

            <p><strong>👉 Complete your profile here:</strong></p>
            <center>
                <a href="{{.FormURL}}" class="cta-button">Complete Profile Now</a>
            </center>

            <p>If you need any help, our Support Team is always here for you.</p>

            <p>Let's make sure your journey at {{.OrgName}} continues smoothly and without interruption!</p>

            <div class="footer">
                <p><strong>Best regards,</strong><br>Team {{.OrgName}}</p>
            </div>
        </div>
    </div>
</body>
</html>`

var tmpl = template.Must(template.New("outreach").Parse(bodyTemplate))

// TemplateComposer renders the fixed outreach email without any external
// service. It is the deterministic fallback and the whole composer in
// offline mode.
type TemplateComposer struct {
	orgName string
	formURL string
}

// NewTemplate builds the deterministic composer.
func NewTemplate(orgName, formURL string) *TemplateComposer {
	return &TemplateComposer{orgName: orgName, formURL: formURL}
}

type templateData struct {
	OrgName        string
	Name           string
	Completion     int
	MissingLabels  []string
	FormURL        string
	HeaderGradient template.CSS
}

// Compose implements Composer. The rendered document is valid HTML for an
// empty display name and for any set of missing fields.
func (c *TemplateComposer) Compose(_ context.Context, rec model.StudentRecord, analysis model.AnalysisResult, _ model.Decision, level nudge.LevelConfig) model.Message {
	gradient, ok := headerGradients[level.Level]
	if !ok {
		gradient = headerGradients[1]
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, templateData{
		OrgName:        c.orgName,
		Name:           rec.DisplayName("Student"),
		Completion:     analysis.Completion,
		MissingLabels:  model.Labels(analysis.MissingFields),
		FormURL:        c.formURL,
		HeaderGradient: gradient,
	})
	body := buf.String()
	if err != nil {
		zap.L().Error("compose: template render failed", zap.Int("row", rec.RowIndex), zap.Error(err))
		body = fmt.Sprintf("<html><body><p>Dear %s, please complete your %s profile: %s</p></body></html>",
			template.HTMLEscapeString(rec.DisplayName("Student")), template.HTMLEscapeString(c.orgName), template.HTMLEscapeString(c.formURL))
	}

	return model.Message{
		RowIndex:      rec.RowIndex,
		StudentEmail:  rec.Email(),
		StudentName:   rec.DisplayName("Student"),
		Subject:       fmt.Sprintf("%sComplete Your %s Profile - Action Needed", level.SubjectPrefix, c.orgName),
		BodyHTML:      body,
		MissingFields: analysis.MissingFields,
		Completion:    analysis.Completion,
		NudgeLevel:    level.Level,
		Provenance:    model.ProvenanceFallback,
	}
}
