package email

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// Notifier es el contrato que consumen los services: envío fire-and-forget
// por nombre de template.
type Notifier interface {
	Send(ctx context.Context, template, to string, vars map[string]any)
}

// AsyncNotifier renderiza y despacha en una goroutine. Los errores se loguean.
type AsyncNotifier struct {
	sender      Sender // nil = SMTP no configurado, se omite el envío
	renderer    *Renderer
	projectName string
	timeout     time.Duration
	wg          sync.WaitGroup
}

type NotifierConfig struct {
	ProjectName string
	// Timeout por envío. Default 30s.
	Timeout time.Duration
}

func NewAsyncNotifier(sender Sender, renderer *Renderer, cfg NotifierConfig) *AsyncNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &AsyncNotifier{sender: sender, renderer: renderer, projectName: cfg.ProjectName, timeout: cfg.Timeout}
}

// Send retorna inmediatamente. vars recibe project_name y email si faltan.
func (n *AsyncNotifier) Send(ctx context.Context, template, to string, vars map[string]any) {
	log := logger.From(ctx).With(logger.Component("notifier"), logger.Template(template), logger.Email(to))
	if n.sender == nil {
		log.Warn("email not configured, skipping send")
		return
	}

	merged := make(map[string]any, len(vars)+2)
	merged["project_name"] = n.projectName
	merged["email"] = to
	for k, v := range vars {
		merged[k] = v
	}

	// El envío sobrevive al request: contexto sin cancelación con timeout propio.
	bg := logger.ToContext(context.WithoutCancel(ctx), log)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic sending email", logger.Any("panic", rec))
			}
		}()

		sendCtx, cancel := context.WithTimeout(bg, n.timeout)
		defer cancel()

		subject, html, text, err := n.renderer.Render(template, merged)
		if err != nil {
			log.Error("email render failed", logger.Err(err))
			return
		}
		if err := n.sender.Send(sendCtx, to, subject, html, text); err != nil {
			log.Error("email send failed", logger.Err(err))
			return
		}
		log.Info("email sent")
	}()
}

// Wait bloquea hasta que terminen los envíos en curso (shutdown y tests).
func (n *AsyncNotifier) Wait() { n.wg.Wait() }
