package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

const dealersFixture = `[
  {"id":1,"city":"El Paso","st":"TX","address":"3 Nova Court","zip":"88563","lat":31.6948,"long":-106.3,"short_name":"Holdlamis","full_name":"Holdlamis Car Dealership"},
  {"id":2,"city":"Minneapolis","st":"MN","address":"6337 Butternut Crossing","zip":55402,"lat":"44.9762","long":"-93.2759","short_name":"Temp","full_name":"Temp Car Dealership"}
]`

func newDealerServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Query().Get("id") == "1":
			_, _ = w.Write([]byte(`[{"id":1,"full_name":"Holdlamis Car Dealership","st":"TX","zip":"88563"}]`))
		case r.URL.Query().Get("id") != "":
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Query().Get("st") == "TX":
			_, _ = w.Write([]byte(`[{"id":1,"full_name":"Holdlamis Car Dealership","st":"TX"}]`))
		default:
			_, _ = w.Write([]byte(dealersFixture))
		}
	}))
}

func TestListDealersMapsFields(t *testing.T) {
	server := newDealerServer(t)
	defer server.Close()
	client := NewDealerClient(NewClient(time.Second, nil), server.URL)

	dealers, err := client.ListDealers(context.Background())

	require.NoError(t, err)
	require.Len(t, dealers, 2)
	assert.Equal(t, domain.CarDealer{
		ID: 1, Address: "3 Nova Court", City: "El Paso", FullName: "Holdlamis Car Dealership",
		ShortName: "Holdlamis", State: "TX", Zip: "88563", Lat: 31.6948, Long: -106.3,
	}, dealers[0])
	assert.Equal(t, "55402", dealers[1].Zip)
	assert.InDelta(t, 44.9762, dealers[1].Lat, 1e-9)
}

func TestListDealersByState(t *testing.T) {
	server := newDealerServer(t)
	defer server.Close()
	client := NewDealerClient(NewClient(time.Second, nil), server.URL)

	dealers, err := client.ListDealersByState(context.Background(), "TX")

	require.NoError(t, err)
	require.Len(t, dealers, 1)
	assert.Equal(t, "TX", dealers[0].State)
}

func TestGetDealer(t *testing.T) {
	server := newDealerServer(t)
	defer server.Close()
	client := NewDealerClient(NewClient(time.Second, nil), server.URL)

	dealer, err := client.GetDealer(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Holdlamis Car Dealership", dealer.FullName)

	_, err = client.GetDealer(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrDealerNotFound)
}
