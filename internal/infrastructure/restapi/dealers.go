package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// DealerClient reads dealerships from the inventory service.
type DealerClient struct {
	client   *Client
	endpoint string
}

func NewDealerClient(client *Client, endpoint string) *DealerClient {
	return &DealerClient{client: client, endpoint: endpoint}
}

type dealerPayload struct {
	ID        int         `json:"id"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	FullName  string      `json:"full_name"`
	ShortName string      `json:"short_name"`
	State     string      `json:"st"`
	Zip       looseString `json:"zip"`
	Lat       looseFloat  `json:"lat"`
	Long      looseFloat  `json:"long"`
}

// ListDealers returns every dealership.
func (d *DealerClient) ListDealers(ctx context.Context) ([]domain.CarDealer, error) {
	return d.fetch(ctx, nil)
}

// ListDealersByState returns dealerships in the given state code.
func (d *DealerClient) ListDealersByState(ctx context.Context, state string) ([]domain.CarDealer, error) {
	return d.fetch(ctx, url.Values{"st": {state}})
}

// GetDealer returns one dealership or domain.ErrDealerNotFound.
func (d *DealerClient) GetDealer(ctx context.Context, id int) (domain.CarDealer, error) {
	dealers, err := d.fetch(ctx, url.Values{"id": {strconv.Itoa(id)}})
	if err != nil {
		return domain.CarDealer{}, err
	}
	for _, dealer := range dealers {
		if dealer.ID == id {
			return dealer, nil
		}
	}
	return domain.CarDealer{}, domain.ErrDealerNotFound
}

func (d *DealerClient) fetch(ctx context.Context, params url.Values) ([]domain.CarDealer, error) {
	var payload []dealerPayload
	if err := d.client.GetJSON(ctx, d.endpoint, params, &payload); err != nil {
		return nil, err
	}
	dealers := make([]domain.CarDealer, 0, len(payload))
	for _, p := range payload {
		dealers = append(dealers, domain.CarDealer{
			ID:        p.ID,
			Address:   p.Address,
			City:      p.City,
			FullName:  p.FullName,
			ShortName: p.ShortName,
			State:     p.State,
			Zip:       string(p.Zip),
			Lat:       float64(p.Lat),
			Long:      float64(p.Long),
		})
	}
	return dealers, nil
}

// looseString accepts both JSON strings and numbers.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// looseFloat accepts numbers and numeric strings.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}
