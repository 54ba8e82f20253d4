package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

type stubDialer struct {
	sent []*gomail.Message
	err  error
}

func (s *stubDialer) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	dialer := &stubDialer{}
	sender := &SMTPSender{from: "no-reply@notewell.test", dialer: dialer}

	msg := OTPMessage("ada@example.com", "123456", 10*time.Minute)
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(dialer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(dialer.sent))
	}

	sent := dialer.sent[0]
	if got := sent.GetHeader("To"); len(got) != 1 || got[0] != "ada@example.com" {
		t.Fatalf("unexpected To header %v", got)
	}
	if got := sent.GetHeader("From"); len(got) != 1 || got[0] != "no-reply@notewell.test" {
		t.Fatalf("unexpected From header %v", got)
	}

	var buf bytes.Buffer
	if _, err := sent.WriteTo(&buf); err != nil {
		t.Fatalf("render message: %v", err)
	}
	if !strings.Contains(buf.String(), "123456") {
		t.Fatalf("expected code in rendered message")
	}
}

func TestSMTPSenderPropagatesFailure(t *testing.T) {
	sender := &SMTPSender{from: "x@y.z", dialer: &stubDialer{err: errors.New("relay down")}}
	err := sender.Send(context.Background(), Message{To: "ada@example.com", Body: "hi"})
	if err == nil || !strings.Contains(err.Error(), "relay down") {
		t.Fatalf("expected relay error, got %v", err)
	}
}

func TestSendersRejectMissingRecipient(t *testing.T) {
	smtp := &SMTPSender{dialer: &stubDialer{}}
	if err := smtp.Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected error without recipient")
	}
	if err := NewConsoleSender(nil).Send(context.Background(), Message{To: " "}); err == nil {
		t.Fatalf("expected error without recipient")
	}
}

func TestNewSelectsSenderByConfig(t *testing.T) {
	if _, ok := New(config.SMTPConfig{}, nil).(*ConsoleSender); !ok {
		t.Fatalf("expected console sender without smtp host")
	}
	if _, ok := New(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, nil).(*SMTPSender); !ok {
		t.Fatalf("expected smtp sender with host")
	}
}

func TestConsoleSenderLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	sender := NewConsoleSender(logger.New(logger.Options{ServiceName: "test", Output: buf}))
	if err := sender.Send(context.Background(), Message{To: "ada@example.com", Subject: "hi", Body: "code"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(buf.String(), "ada@example.com") {
		t.Fatalf("expected recipient in log, got %s", buf.String())
	}
}

func TestOTPMessageMinutes(t *testing.T) {
	msg := OTPMessage("a@b.c", "654321", 10*time.Minute)
	if !strings.Contains(msg.Body, "10 minutes") {
		t.Fatalf("expected ttl in body, got %q", msg.Body)
	}
}
