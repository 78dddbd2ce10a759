// Package mailer 发送审核结果和封禁通知邮件
package mailer

import (
	"crypto/tls"

	"gatormmunity/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer 邮件发送接口
type Mailer interface {
	Send(from, to, subject, htmlBody string) error
}

// New 配置了 SMTP 主机时使用 SMTPMailer，否则只记录日志
func New(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		zap.L().Warn("mail host not configured, notification emails will only be logged")
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer 通过 SMTP 发送邮件
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer 创建 SMTP 发送器
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &SMTPMailer{dialer: d}
}

// Send 发送 HTML 邮件
func (m *SMTPMailer) Send(from, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// LogMailer 只把邮件写入日志，用于本地开发
type LogMailer struct{}

func (LogMailer) Send(from, to, subject, htmlBody string) error {
	zap.L().Info("mail not sent (no smtp host)",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
