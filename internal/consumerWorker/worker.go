package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"greenpledge/internal/dto"
	"greenpledge/internal/rabbit"
)

// Sender is satisfied by the mailer; kept narrow so tests can stub it.
type Sender interface {
	SendThankYou(name, toEmail string) error
}

// Reader drains queued thank-you jobs and turns them into emails.
type Reader struct {
	RMQ    *rabbit.Client
	mail   Sender
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, mail Sender) *Reader {
	return &Reader{
		RMQ:  rmq,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("email worker started")

	go func() {
		defer close(r.done)

		if err := r.RMQ.Consume(r.handle); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("email worker stopped by context")
	}()
}

func (r *Reader) handle(body []byte) error {
	var msg dto.ThankYouMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// Returning the error would Nack with requeue and spin on the same
		// body forever; an unparseable message is dropped like a failed send.
		zlog.Logger.Error().
			Err(err).
			Msgf("Failed to unmarshal message: %s", string(body))
		return nil
	}

	zlog.Logger.Info().
		Int64("pledge_id", msg.PledgeID).
		Str("email", msg.Email).
		Msg("received thank-you job")

	// A failed send is dropped, not requeued: the pledge itself is already
	// persisted and the original treated the email as best-effort.
	if err := r.mail.SendThankYou(msg.Name, msg.Email); err != nil {
		zlog.Logger.Warn().
			Err(err).
			Int64("pledge_id", msg.PledgeID).
			Msg("Failed to send thank-you email")
	}
	return nil
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
