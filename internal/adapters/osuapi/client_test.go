package osuapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/hikaya/spotwatch/internal/adapters/osuapi"
	"github.com/hikaya/spotwatch/internal/domain/model"
	"github.com/hikaya/spotwatch/internal/mockosu"
	"github.com/hikaya/spotwatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

// newClient points a Client at the given test server.
func newClient(ctx context.Context, baseURL string, opts ...osuapi.Option) *osuapi.Client {
	all := append([]osuapi.Option{
		osuapi.WithUserID(124493),
		osuapi.WithUsername("Cookiezi"),
		osuapi.WithAPIBaseURL(baseURL + "/api/v2"),
		osuapi.WithStatsBaseURL(baseURL),
		osuapi.WithTokenURL(baseURL + "/oauth/token"),
		osuapi.WithRateLimit(1000),
	}, opts...)
	return osuapi.New(ctx, "client-id", "client-secret", all...)
}

func TestRecentActivity(t *testing.T) {
	Convey("Given a mock osu! API", t, func() {
		ctx := context.Background()
		mock := mockosu.New(mockosu.WithEvents([]mockosu.Event{
			mockosu.RankEvent("Song A", 30),
			{Type: "achievement"},
			mockosu.RankEvent("Song B", 5),
		}))
		srv := httptest.NewServer(mock.Handler())
		defer srv.Close()

		client := newClient(ctx, srv.URL)

		Convey("When the recent-activity feed is fetched", func() {
			activities, err := client.RecentActivity(ctx)

			Convey("Then every event maps to the domain model in order", func() {
				So(err, ShouldBeNil)
				So(activities, ShouldHaveLength, 3)
				So(activities[0].Type, ShouldEqual, model.TypeRank)
				So(activities[0].BeatmapTitle, ShouldEqual, "Song A")
				So(activities[0].Rank, ShouldEqual, 30)
				So(activities[1].IsRank(), ShouldBeFalse)
				So(activities[1].BeatmapTitle, ShouldBeEmpty)
				So(activities[2].BeatmapTitle, ShouldEqual, "Song B")
				So(activities[2].Rank, ShouldEqual, 5)
			})
		})
	})
}

func TestTotalLeaderboardCount(t *testing.T) {
	Convey("Given a mock aggregator with seeded counts", t, func() {
		ctx := context.Background()
		mock := mockosu.New(
			mockosu.WithCount(50, 321),
			mockosu.WithCount(8, 45),
		)
		srv := httptest.NewServer(mock.Handler())
		defer srv.Close()

		client := newClient(ctx, srv.URL)

		Convey("When counts are fetched per threshold", func() {
			top50, err50 := client.TotalLeaderboardCount(ctx, 50)
			top8, err8 := client.TotalLeaderboardCount(ctx, 8)

			Convey("Then the tuple's count element is decoded", func() {
				So(err50, ShouldBeNil)
				So(top50, ShouldEqual, 321)
				So(err8, ShouldBeNil)
				So(top8, ShouldEqual, 45)
			})
		})
	})
}

func TestClientRetry(t *testing.T) {
	Convey("Given an upstream that fails once before succeeding", t, func() {
		ctx := context.Background()
		var calls atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":86400,"access_token":"t"}`))
		})
		mux.HandleFunc("/api/v2/users/124493/recent_activity", func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"type":"rank","rank":3,"beatmap":{"title":"Comeback"}}]`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := newClient(ctx, srv.URL, osuapi.WithMaxRetries(3))

		Convey("When the feed is fetched", func() {
			activities, err := client.RecentActivity(ctx)

			Convey("Then the retry recovers the batch", func() {
				So(err, ShouldBeNil)
				So(activities, ShouldHaveLength, 1)
				So(activities[0].BeatmapTitle, ShouldEqual, "Comeback")
				So(calls.Load(), ShouldEqual, 2)
			})
		})
	})
}

func TestClientPermanentFailure(t *testing.T) {
	Convey("Given an upstream that rejects the request outright", t, func() {
		ctx := context.Background()
		var calls atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":86400,"access_token":"t"}`))
		})
		mux.HandleFunc("/api/v2/users/124493/recent_activity", func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := newClient(ctx, srv.URL, osuapi.WithMaxRetries(5))

		Convey("When the feed is fetched", func() {
			_, err := client.RecentActivity(ctx)

			Convey("Then a 4xx is not retried", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, osuapi.ErrUnexpectedStatus), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 1)
			})
		})
	})
}
