package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/nordlayer/printing-platform/internal/config"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// Notifier delivers admin notifications about platform events. All
// methods are best effort: failures are logged, never propagated to the
// request that triggered them.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order, previous string)
	ContactSubmitted(ctx context.Context, req *models.ContactRequest)
}

type telegramMessage struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Service posts Telegram webhook messages and sends SMTP mail when the
// corresponding channel is configured.
type Service struct {
	logger *zap.Logger
	cfg    config.NotifyConfig
	http   *resty.Client
}

// NewService builds a notifier. With no webhook URL and email disabled
// it degrades to logging only.
func NewService(logger *zap.Logger, cfg config.NotifyConfig) *Service {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)
	return &Service{logger: logger, cfg: cfg, http: client}
}

// OrderCreated notifies admins about a new order.
func (s *Service) OrderCreated(ctx context.Context, order *models.Order) {
	serviceName := "unknown service"
	if order.Service != nil {
		serviceName = order.Service.Name
	}
	text := fmt.Sprintf(
		"New order received\nCustomer: %s\nContact: %s\nService: %s\nSource: %s",
		order.CustomerName, order.CustomerContact, serviceName, order.Source)
	s.dispatch(ctx, "New order", text)
}

// OrderStatusChanged notifies admins about an order status transition.
func (s *Service) OrderStatusChanged(ctx context.Context, order *models.Order, previous string) {
	text := fmt.Sprintf(
		"Order %s status changed\nCustomer: %s\n%s -> %s",
		order.ID, order.CustomerName, previous, order.Status)
	s.dispatch(ctx, "Order status changed", text)
}

// ContactSubmitted notifies admins about a new contact form message.
func (s *Service) ContactSubmitted(ctx context.Context, req *models.ContactRequest) {
	text := fmt.Sprintf(
		"New contact request\nFrom: %s <%s>\nSubject: %s\n\n%s",
		req.Name, req.Email, req.Subject, req.Message)
	s.dispatch(ctx, "New contact request", text)
}

// dispatch fans the message out to every configured channel in the
// background. The caller's request must not wait on delivery.
func (s *Service) dispatch(ctx context.Context, subject, text string) {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		if s.cfg.TelegramWebhookURL != "" {
			if err := s.sendTelegram(sendCtx, text); err != nil {
				s.logger.Warn("telegram notification failed", zap.Error(err))
			}
		}
		if s.cfg.EmailEnabled && s.cfg.SMTPServer != "" {
			if err := s.sendEmail(subject, text); err != nil {
				s.logger.Warn("email notification failed", zap.Error(err))
			}
		}
	}()
}

func (s *Service) sendTelegram(ctx context.Context, text string) error {
	if len(s.cfg.TelegramAdminChatIDs) == 0 {
		return fmt.Errorf("no admin chat ids configured")
	}
	for _, chatID := range s.cfg.TelegramAdminChatIDs {
		resp, err := s.http.R().
			SetContext(ctx).
			SetBody(telegramMessage{ChatID: chatID, Text: text}).
			Post(s.cfg.TelegramWebhookURL)
		if err != nil {
			return fmt.Errorf("webhook post to chat %d: %w", chatID, err)
		}
		if resp.IsError() {
			return fmt.Errorf("webhook post to chat %d: status %d", chatID, resp.StatusCode())
		}
	}
	return nil
}

// sendEmail mails the admin recipients; with none configured the
// sender address doubles as the inbox.
func (s *Service) sendEmail(subject, body string) error {
	recipients := s.cfg.AdminEmails
	if len(recipients) == 0 && s.cfg.FromEmail != "" {
		recipients = []string{s.cfg.FromEmail}
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no admin_emails or from_email configured")
	}
	msg := strings.Join([]string{
		"From: " + s.cfg.FromEmail,
		"To: " + strings.Join(recipients, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPServer, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPServer)
	}
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, recipients, []byte(msg))
}
