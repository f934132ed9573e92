package chartapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

func sampleInput() birthchart.BirthInput {
	return birthchart.BirthInput{
		Year:      1990,
		Month:     1,
		Day:       15,
		Hours:     14,
		Minutes:   30,
		Latitude:  51.5074,
		Longitude: -0.1278,
		Timezone:  1,
		Ayanamsha: birthchart.AyanamshaLahiri,
	}
}

func TestCalculatePostsPayloadOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/birth-chart", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "application/json")

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Len(t, body, 10)
		require.Equal(t, 1990.0, body["year"])
		require.Equal(t, 1.0, body["month"])
		require.Equal(t, 0.0, body["seconds"])
		require.Equal(t, 51.5074, body["latitude"])
		require.Equal(t, "lahiri", body["ayanamsha"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"planets":[
			{"name":"Sun","degrees":1.25,"sign":"Capricorn","house":10,"retrograde":false},
			{"name":"Moon","degrees":12.5,"sign":"Leo","house":5,"retrograde":false},
			{"name":"Saturn","degrees":22.1,"sign":"Sagittarius","house":9,"retrograde":true}
		],"chart_url":null}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	result, err := client.Calculate(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
	require.Len(t, result.Planets, 3)
	require.Equal(t, "Sun", result.Planets[0].Name)
	require.Equal(t, "Saturn", result.Planets[2].Name)
	require.True(t, result.Planets[2].Retrograde)
	require.Empty(t, result.ChartURL)
}

func TestCalculateNon2xxIsSingleAttemptError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Calculate(context.Background(), sampleInput())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "status=500")
	require.Equal(t, int32(1), calls.Load())
}

func TestCalculateMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Calculate(context.Background(), sampleInput())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode chart response")
}

func TestCalculateNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Calculate(context.Background(), sampleInput())
	require.Error(t, err)
	require.Contains(t, err.Error(), "chart request failed")
}

func TestCalculateMissingPlanetsDecodesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart_url":"https://charts.example/x.png"}`))
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL).Calculate(context.Background(), sampleInput())
	require.NoError(t, err)
	require.NotNil(t, result.Planets)
	require.Empty(t, result.Planets)
	require.Equal(t, "https://charts.example/x.png", result.ChartURL)
}

func TestHistoryAndPing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Sidereal Astrology API is running!"}`))
	})
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"history":[{"id":"a1","request":{"year":1990,"month":1,"day":15,"hours":14,"minutes":30,"seconds":0,"latitude":51.5,"longitude":-0.12,"timezone":1,"ayanamsha":"raman"},"timestamp":"2024-07-01T10:00:00.123456","planets":[{"name":"Sun","degrees":1,"sign":"Capricorn","house":10,"retrograde":false}]}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.Ping(context.Background()))

	entries, err := client.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a1", entries[0].ID)
	require.Equal(t, birthchart.AyanamshaRaman, entries[0].Request.Ayanamsha)
	require.Len(t, entries[0].Planets, 1)
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseURL, NewClient("  ").BaseURL())
	require.Equal(t, "http://localhost:8001", NewClient("http://localhost:8001/").BaseURL())
}
