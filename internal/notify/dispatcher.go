package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/metrics"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

var (
	ErrDelivery        = errors.New("otp delivery failed")
	ErrChannelDisabled = errors.New("delivery channel is not configured")
)

type Sender interface {
	Send(ctx context.Context, destination, code string) error
}

// Dispatcher delivers codes once per call. Failures are logged and counted, never retried.
type Dispatcher struct {
	senders map[Channel]Sender
	metrics *metrics.Metrics
}

func NewDispatcher(m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{senders: map[Channel]Sender{}, metrics: m}
}

func (d *Dispatcher) Register(ch Channel, s Sender) {
	d.senders[ch] = s
}

func (d *Dispatcher) Enabled(ch Channel) bool {
	_, ok := d.senders[ch]
	return ok
}

func (d *Dispatcher) Dispatch(ctx context.Context, ch Channel, destination, code string) error {
	l := logging.FromContext(ctx).With("component", "notify.dispatch", "channel", string(ch))

	s, ok := d.senders[ch]
	if !ok {
		l.Warn("otp_delivery_skipped", "reason", "channel disabled")
		d.metrics.IncOTPDelivery(string(ch), "disabled")
		return fmt.Errorf("%w: %s", ErrChannelDisabled, ch)
	}

	if err := s.Send(ctx, destination, code); err != nil {
		l.Error("otp_delivery_failed", "reason", "sender returned error", "error", err)
		d.metrics.IncOTPDelivery(string(ch), "failed")
		return fmt.Errorf("%w: %s: %v", ErrDelivery, ch, err)
	}

	l.Info("otp_delivery_success")
	d.metrics.IncOTPDelivery(string(ch), "ok")
	return nil
}
