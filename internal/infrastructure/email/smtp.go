// Package email 提供基于 SMTP 的邮件发送能力
// 用于邮箱验证码和密码重置链接的投递
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/pkg/errorx"
)

// Mailer 邮件发送接口，Service 层依赖此接口便于测试替换
type Mailer interface {
	Send(toEmail, subject, textBody string) error
}

// SMTPMailer 基于 net/smtp 的 Mailer 实现
type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPMailer 从配置创建 SMTPMailer
func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
	}
}

// Send 发送一封纯文本邮件
func (m *SMTPMailer) Send(toEmail, subject, textBody string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	client, err := m.connect(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return errorx.Wrap(err, errorx.CodeServerBusy, "smtp auth")
		}
	}

	if err := client.Mail(m.fromEmail); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "smtp from")
	}
	if err := client.Rcpt(toEmail); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "smtp rcpt")
	}

	writer, err := client.Data()
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "smtp data")
	}

	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}
	body := buildMessage(from, toEmail, subject, textBody)
	if _, err := writer.Write([]byte(body)); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "smtp write")
	}
	if err := writer.Close(); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "smtp close")
	}
	if err := client.Quit(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
		return errorx.Wrap(err, errorx.CodeServerBusy, "smtp quit")
	}
	return nil
}

// connect 建立 SMTP 连接并完成 STARTTLS 握手
func (m *SMTPMailer) connect(addr string) (*smtp.Client, error) {
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "smtp dial")
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}); err != nil {
			_ = client.Close()
			return nil, errorx.Wrap(err, errorx.CodeServerBusy, "smtp starttls")
		}
	}
	return client, nil
}

func buildMessage(from, to, subject, body string) string {
	lines := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}
	return strings.Join(lines, "\r\n")
}

var _ Mailer = (*SMTPMailer)(nil)
