// Package transaction is the client of the transaction service, which owns
// the monetary transactions that debt payments reference.
package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/debts-worker/internal/domain"
	"github.com/heartmarshall/debts-worker/internal/transport/message"
)

// ErrRejected is returned when the transaction service answers with a
// non-200 status.
var ErrRejected = errors.New("transaction rejected")

// requestTypeAdd is the transaction service's message type for creating a transaction.
const requestTypeAdd = "add"

type requestor interface {
	Request(ctx context.Context, queue string, req message.Envelope) (message.Envelope, error)
}

// Client records transactions over correlated queue requests.
type Client struct {
	rpc   requestor
	queue string
	log   *slog.Logger
}

// New creates a Client that sends requests to queue.
func New(rpc requestor, queue string, log *slog.Logger) *Client {
	return &Client{rpc: rpc, queue: queue, log: log.With("component", "transaction_client")}
}

type addTransactionPayload struct {
	UserID          string `json:"user_id"`
	WalletID        string `json:"wallet_id,omitempty"`
	DebtID          string `json:"debt_id"`
	Amount          int64  `json:"amount"`
	Concept         string `json:"concept"`
	CategoryID      string `json:"category_id"`
	TransactionDate string `json:"transactionDate"`
}

// transactionReply accepts both id spellings used by the transaction service.
type transactionReply struct {
	ID    string `json:"id"`
	DocID string `json:"_id"`
}

// RecordPayment asks the transaction service to record the transaction of a
// debt payment and returns its reference.
func (c *Client) RecordPayment(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRef, error) {
	payload, err := json.Marshal(addTransactionPayload{
		UserID:          req.UserID,
		WalletID:        req.WalletID,
		DebtID:          req.DebtID.String(),
		Amount:          req.Amount,
		Concept:         req.Concept,
		CategoryID:      req.CategoryID,
		TransactionDate: req.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transaction: %w", err)
	}

	reply, err := c.rpc.Request(ctx, c.queue, message.Envelope{
		Type:    requestTypeAdd,
		Status:  http.StatusOK,
		Payload: payload,
	})
	if err != nil {
		return nil, fmt.Errorf("request transaction: %w", err)
	}

	if reply.Status != http.StatusOK {
		var ep message.ErrorPayload
		_ = json.Unmarshal(reply.Payload, &ep)
		c.log.WarnContext(ctx, "transaction rejected",
			slog.Int("status", reply.Status),
			slog.String("message", ep.Message),
			slog.String("debt_id", req.DebtID.String()),
		)
		return nil, fmt.Errorf("status %d %q: %w", reply.Status, ep.Message, ErrRejected)
	}

	var tr transactionReply
	if err := json.Unmarshal(reply.Payload, &tr); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	id := tr.ID
	if id == "" {
		id = tr.DocID
	}
	if id == "" {
		return nil, fmt.Errorf("transaction reply without id: %w", ErrRejected)
	}

	return &domain.TransactionRef{ID: id}, nil
}
