package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aurumfx/lbadmin/internal/model"
)

// Leaderboard endpoint paths, relative to the client's base URL.
const (
	PathList    = "/leaderboard"
	PathCreate  = "/leaderboard/add"
	PathUpdate  = "/leaderboard/update/"
	PathDelete  = "/leaderboard/delete/"
	PathReorder = "/leaderboard/reorder"
	PathLogin   = "/users/login"
)

// TraderService is the remote gateway for the trader collection.
type TraderService struct {
	client *Client
}

// NewTraderService creates a TraderService backed by c.
func NewTraderService(c *Client) *TraderService {
	return &TraderService{client: c}
}

// List fetches every trader in server rank order.
func (s *TraderService) List(ctx context.Context) ([]model.Trader, error) {
	resp, err := s.client.Get(ctx, PathList)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var payload []traderPayload
	if err := DecodeEnvelope(resp, &payload); err != nil {
		return nil, err
	}

	traders := make([]model.Trader, 0, len(payload))
	for _, p := range payload {
		traders = append(traders, p.toModel())
	}
	return traders, nil
}

// Create adds a trader. It is never retried: a timeout may still have
// created the record.
func (s *TraderService) Create(ctx context.Context, d model.Draft) (model.Trader, error) {
	if err := d.Validate(); err != nil {
		return model.Trader{}, err
	}

	resp, err := s.client.Post(ctx, PathCreate, newDraftPayload(d))
	if err != nil {
		return model.Trader{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeTrader(resp, d)
}

// Update replaces the editable fields of trader id.
func (s *TraderService) Update(ctx context.Context, id model.TraderID, d model.Draft) (model.Trader, error) {
	if id == "" {
		return model.Trader{}, &model.ValidationError{Field: "id", Reason: "is required"}
	}
	if err := d.Validate(); err != nil {
		return model.Trader{}, err
	}

	resp, err := s.client.Put(ctx, PathUpdate+url.PathEscape(id.String()), newDraftPayload(d))
	if err != nil {
		return model.Trader{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	t, err := decodeTrader(resp, d)
	if err != nil {
		return model.Trader{}, err
	}
	if t.ID == "" {
		t.ID = id
	}
	return t, nil
}

// Delete removes trader id.
func (s *TraderService) Delete(ctx context.Context, id model.TraderID) error {
	if id == "" {
		return &model.ValidationError{Field: "id", Reason: "is required"}
	}

	resp, err := s.client.Delete(ctx, PathDelete+url.PathEscape(id.String()))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return DecodeEnvelope(resp, nil)
}

// Reorder sends the full set of rank assignments in one request.
func (s *TraderService) Reorder(ctx context.Context, orders []model.RankAssignment) error {
	if len(orders) == 0 {
		return &model.ValidationError{Field: "orders", Reason: "must not be empty"}
	}

	payload := reorderPayload{Orders: make([]reorderEntry, len(orders))}
	for i, o := range orders {
		payload.Orders[i] = reorderEntry{ID: wireID(o.ID), RankID: o.Rank}
	}

	resp, err := s.client.Post(ctx, PathReorder, payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return DecodeEnvelope(resp, nil)
}

// decodeTrader reads a trader from a create/update response. Some endpoints
// answer with an empty data field; the draft fills in what is known.
func decodeTrader(resp *http.Response, d model.Draft) (model.Trader, error) {
	var payload *traderPayload
	if err := DecodeEnvelope(resp, &payload); err != nil {
		return model.Trader{}, err
	}
	if payload == nil {
		return model.Trader{
			Name:             d.Name,
			AccountBalance:   d.AccountBalance,
			GrowthPercentage: d.GrowthPercentage,
			Platform:         d.Platform,
			CountryCode:      d.CountryCode,
			RankPosition:     d.RankPosition,
		}, nil
	}
	return payload.toModel(), nil
}
