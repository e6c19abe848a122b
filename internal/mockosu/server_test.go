package mockosu_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hikaya/spotwatch/internal/mockosu"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMockServer(t *testing.T) {
	Convey("Given a mock osu! server", t, func() {
		mock := mockosu.New(
			mockosu.WithEvents([]mockosu.Event{mockosu.RankEvent("Padoru", 7)}),
			mockosu.WithCount(50, 42),
		)
		srv := httptest.NewServer(mock.Handler())
		defer srv.Close()

		Convey("When a token is requested", func() {
			resp, err := http.Post(srv.URL+"/oauth/token", "application/x-www-form-urlencoded", nil)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			var token struct {
				AccessToken string `json:"access_token"`
				TokenType   string `json:"token_type"`
			}
			So(json.NewDecoder(resp.Body).Decode(&token), ShouldBeNil)

			Convey("Then a bearer token is issued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(token.TokenType, ShouldEqual, "Bearer")
				So(token.AccessToken, ShouldNotBeEmpty)
			})
		})

		Convey("When the activity feed is requested", func() {
			resp, err := http.Get(srv.URL + "/api/v2/users/1/recent_activity")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			var events []mockosu.Event
			So(json.NewDecoder(resp.Body).Decode(&events), ShouldBeNil)

			Convey("Then the seeded events are served", func() {
				So(events, ShouldHaveLength, 1)
				So(events[0].Type, ShouldEqual, "rank")
				So(events[0].Rank, ShouldEqual, 7)
				So(events[0].Beatmap.Title, ShouldEqual, "Padoru")
			})
		})

		Convey("When scores are queried", func() {
			body, _ := json.Marshal(map[string]any{"rankMax": 50, "u1": "someone"})
			resp, err := http.Post(srv.URL+"/api/getScores", "application/json", bytes.NewReader(body))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			var tuple []json.RawMessage
			So(json.NewDecoder(resp.Body).Decode(&tuple), ShouldBeNil)

			Convey("Then the positional tuple carries the seeded count", func() {
				So(len(tuple), ShouldBeGreaterThanOrEqualTo, 2)
				var count int
				So(json.Unmarshal(tuple[1], &count), ShouldBeNil)
				So(count, ShouldEqual, 42)
			})
		})

		Convey("When the feed is replaced at runtime", func() {
			mock.SetEvents([]mockosu.Event{mockosu.RankEvent("New Chart", 1)})
			resp, err := http.Get(srv.URL + "/api/v2/users/1/recent_activity")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			var events []mockosu.Event
			So(json.NewDecoder(resp.Body).Decode(&events), ShouldBeNil)

			Convey("Then later requests see the new fixture", func() {
				So(events, ShouldHaveLength, 1)
				So(events[0].Beatmap.Title, ShouldEqual, "New Chart")
			})
		})
	})
}
