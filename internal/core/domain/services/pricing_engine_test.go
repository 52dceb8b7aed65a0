package services_test

import (
	"testing"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingEngine_Table(t *testing.T) {
	engine := services.NewPricingEngine()

	testCases := []struct {
		origin kernel.City
		campus kernel.Campus
		fee    string
		etaMin time.Duration
		etaMax time.Duration
	}{
		{kernel.CityHarar, kernel.CampusHarar, "40.00", 30 * time.Minute, 60 * time.Minute},
		{kernel.CityHarar, kernel.CampusHaramaya, "100.00", 60 * time.Minute, 120 * time.Minute},
		{kernel.CityHarar, kernel.CampusDireDawa, "150.00", 120 * time.Minute, 180 * time.Minute},
		{kernel.CityDireDawa, kernel.CampusHarar, "150.00", 120 * time.Minute, 180 * time.Minute},
		{kernel.CityDireDawa, kernel.CampusHaramaya, "100.00", 60 * time.Minute, 120 * time.Minute},
		{kernel.CityDireDawa, kernel.CampusDireDawa, "40.00", 30 * time.Minute, 60 * time.Minute},
	}

	for _, tc := range testCases {
		t.Run(string(tc.origin)+"->"+string(tc.campus), func(t *testing.T) {
			q, err := engine.Quote(tc.origin, tc.campus)

			require.NoError(t, err)
			assert.Equal(t, tc.fee, q.Fee.String())
			assert.Equal(t, tc.etaMin, q.ETA.Min())
			assert.Equal(t, tc.etaMax, q.ETA.Max())
		})
	}
}

func TestPricingEngine_Deterministic(t *testing.T) {
	first := services.NewPricingEngine()
	second := services.NewPricingEngine()

	for _, city := range kernel.Cities() {
		for _, campus := range kernel.Campuses() {
			want, err := first.Quote(city, campus)
			require.NoError(t, err)
			for range 50 {
				got, err := second.Quote(city, campus)
				require.NoError(t, err)
				assert.True(t, want.Fee.IsEqual(got.Fee))
				assert.Equal(t, want.ETA, got.ETA)
			}
		}
	}
}

func TestPricingEngine_UnknownRoute(t *testing.T) {
	engine := services.NewPricingEngine()

	_, err := engine.Quote(kernel.City("BAHIR_DAR"), kernel.CampusHarar)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = engine.Quote(kernel.CityHarar, kernel.Campus("JIMMA"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPricingEngine_QuoteItems(t *testing.T) {
	engine := services.NewPricingEngine()
	buyer := kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil)

	t.Run("two units from one harar shop to the in-city campus", func(t *testing.T) {
		o := buildOrder(t, buyer, kernel.CampusHarar,
			line{shopID: kernel.NewUUID(), productID: kernel.NewUUID(), city: kernel.CityHarar, quantity: 2, price: "60"})

		q, err := engine.QuoteItems(o.Items(), kernel.CampusHarar)

		require.NoError(t, err)
		assert.Equal(t, "40.00", q.Fee.String())
	})

	t.Run("harar and dire dawa shops to the midpoint sum per shop", func(t *testing.T) {
		o := buildOrder(t, buyer, kernel.CampusHaramaya,
			line{shopID: kernel.NewUUID(), productID: kernel.NewUUID(), city: kernel.CityHarar, quantity: 1, price: "60"},
			line{shopID: kernel.NewUUID(), productID: kernel.NewUUID(), city: kernel.CityDireDawa, quantity: 1, price: "30"})

		q, err := engine.QuoteItems(o.Items(), kernel.CampusHaramaya)

		require.NoError(t, err)
		assert.Equal(t, "200.00", q.Fee.String())
		assert.Equal(t, 60*time.Minute, q.ETA.Min())
		assert.Equal(t, 120*time.Minute, q.ETA.Max())
	})

	t.Run("several items of one shop are charged once", func(t *testing.T) {
		shopID := kernel.NewUUID()
		o := buildOrder(t, buyer, kernel.CampusDireDawa,
			line{shopID: shopID, productID: kernel.NewUUID(), city: kernel.CityHarar, quantity: 1, price: "10"},
			line{shopID: shopID, productID: kernel.NewUUID(), city: kernel.CityHarar, quantity: 4, price: "5"})

		q, err := engine.QuoteItems(o.Items(), kernel.CampusDireDawa)

		require.NoError(t, err)
		assert.Equal(t, "150.00", q.Fee.String())
	})

	t.Run("eta is the widest band", func(t *testing.T) {
		o := buildOrder(t, buyer, kernel.CampusHarar,
			line{shopID: kernel.NewUUID(), productID: kernel.NewUUID(), city: kernel.CityHarar, quantity: 1, price: "10"},
			line{shopID: kernel.NewUUID(), productID: kernel.NewUUID(), city: kernel.CityDireDawa, quantity: 1, price: "10"})

		q, err := engine.QuoteItems(o.Items(), kernel.CampusHarar)

		require.NoError(t, err)
		assert.Equal(t, "190.00", q.Fee.String())
		assert.Equal(t, 120*time.Minute, q.ETA.Min())
		assert.Equal(t, 180*time.Minute, q.ETA.Max())
	})

	t.Run("empty cart", func(t *testing.T) {
		_, err := engine.QuoteItems(nil, kernel.CampusHarar)

		require.ErrorIs(t, err, errs.ErrEmptyCart)
	})
}
