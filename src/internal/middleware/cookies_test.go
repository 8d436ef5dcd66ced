package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieParser(t *testing.T) {
	r := newEngine(CookieParser())
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, Cookies(c)) })

	req := request(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "a=1; b=two; a=3")

	assert.JSONEq(t, `{"a":"1","b":"two"}`, serve(r, req).Body.String())
}

func TestCookieParserWithoutCookies(t *testing.T) {
	r := newEngine(CookieParser())
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, Cookies(c)) })

	assert.JSONEq(t, `{}`, serve(r, request(http.MethodGet, "/", nil)).Body.String())
}

func TestLastVisitCarriesPreviousTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	r := newEngine(LastVisit("lastVisit", 48*time.Hour, clock))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(LastVisitKey)) })

	first := serve(r, request(http.MethodGet, "/", nil))
	assert.Empty(t, first.Body.String())

	var stamp *http.Cookie
	for _, ck := range first.Result().Cookies() {
		if ck.Name == "lastVisit" {
			stamp = ck
		}
	}
	require.NotNil(t, stamp)
	assert.Equal(t, now.Format(time.RFC3339Nano), stamp.Value)
	assert.Equal(t, int((48 * time.Hour).Seconds()), stamp.MaxAge)

	now = now.Add(time.Minute)
	req := request(http.MethodGet, "/", nil)
	req.AddCookie(stamp)
	second := serve(r, req)

	assert.Equal(t, stamp.Value, second.Body.String())
	assert.Contains(t, second.Header().Get("Set-Cookie"), now.Format(time.RFC3339Nano))
}

func TestViewMergesRequestData(t *testing.T) {
	r := newEngine(ViewData("svc", "1.2.3"))
	r.GET("/", func(c *gin.Context) {
		c.Set(LastVisitKey, "yesterday")
		c.JSON(http.StatusOK, View(c, gin.H{"Title": "Home"}))
	})

	rec := serve(r, request(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"AppName":"svc","Version":"1.2.3","LastVisit":"yesterday","Title":"Home"}`, rec.Body.String())
}
