package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockyourlot/stocklot-client/client"
	"github.com/stockyourlot/stocklot-client/guard"
	"github.com/stockyourlot/stocklot-client/roles"
	"github.com/stockyourlot/stocklot-client/session"
)

func newClient(t *testing.T, handler http.Handler, options ...client.Option) (*client.Client, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	c, err := client.New(srv.URL, store, options...)
	require.NoError(t, err)
	return c, store
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLogin(t *testing.T) {
	t.Run("success populates the whole session", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, "jane@example.com", creds["email"])
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"token":           "t1",
				"username":        "Jane",
				"email":           "jane@example.com",
				"roles":           []string{"Sales_Admin"},
				"dealershipRoles": []string{"User"},
			})
		})
		c, store := newClient(t, mux)

		result, err := c.Login(context.Background(), " jane@example.com ", "pw")
		require.NoError(t, err)
		require.Equal(t, roles.LandingAdmin, result.LandingRole)

		s := store.Get()
		require.Equal(t, "t1", s.Token)
		require.Equal(t, "Jane", s.DisplayName)
		require.Equal(t, roles.LandingAdmin, s.LandingRole)
		require.Equal(t, []string{"Sales_Admin"}, s.RawRoles)
	})

	t.Run("dealership context stored under either field name", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"token":           "t1",
				"username":        "Dana",
				"dealershipName":  "  Dana Autos  ",
				"dealershipRoles": []string{"User"},
			})
		})
		c, store := newClient(t, mux)

		result, err := c.Login(context.Background(), "dana@example.com", "pw")
		require.NoError(t, err)
		require.Equal(t, roles.LandingDealer, result.LandingRole)
		require.Equal(t, "Dana Autos", store.Get().DealerName)
	})

	t.Run("legacy contract resolves through the legacy vocabulary", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			// No dealershipRoles field at all.
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"token":    "t1",
				"username": "Lee",
				"roles":    []string{"ROLE_ADMIN"},
			})
		})
		c, store := newClient(t, mux)

		result, err := c.Login(context.Background(), "lee@example.com", "pw")
		require.NoError(t, err)
		require.Equal(t, roles.LandingAdmin, result.LandingRole)
		require.Equal(t, roles.LandingAdmin, store.Get().LandingRole)
	})

	t.Run("no recognizable claims lands on dealer", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"token":    "t1",
				"username": "Sam",
			})
		})
		c, store := newClient(t, mux)

		result, err := c.Login(context.Background(), "sam@example.com", "pw")
		require.NoError(t, err)
		require.Equal(t, roles.LandingDealer, result.LandingRole)
		require.True(t, store.Get().Authenticated())
	})

	t.Run("rejection surfaces the backend message and keeps the session", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{
				"message": "invalid email or password",
			})
		})
		c, store := newClient(t, mux)
		require.NoError(t, store.Put(session.Session{Token: "old", LandingRole: roles.LandingDealer}))

		_, err := c.Login(context.Background(), "jane@example.com", "wrong")
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "invalid email or password", apiErr.Message)
		require.NotErrorIs(t, err, client.ErrSessionExpired,
			"a rejected login is bad credentials, not session expiry")
		require.Equal(t, "old", store.Get().Token, "existing session untouched")
	})

	t.Run("unparseable error body falls back to a generic message", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>boom</html>"))
		})
		c, _ := newClient(t, mux)

		_, err := c.Login(context.Background(), "jane@example.com", "pw")
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		require.Contains(t, apiErr.Error(), "500")
	})
}

func TestDo(t *testing.T) {
	t.Run("attaches the stored bearer and preserves request identity", func(t *testing.T) {
		var gotAuth, gotRequestID string
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/purchases/me", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			writeJSON(t, w, http.StatusOK, []map[string]interface{}{{"vin": "1HGBH41JXMN109186"}})
		})
		c, store := newClient(t, mux)
		require.NoError(t, store.SetToken("t1"))

		purchases, err := c.MyPurchases(context.Background())
		require.NoError(t, err)
		require.Len(t, purchases, 1)
		require.Equal(t, "Bearer t1", gotAuth)
		require.NotEmpty(t, gotRequestID)
	})

	t.Run("caller headers are preserved", func(t *testing.T) {
		var gotAccept, gotAuth string
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/dealerships", func(w http.ResponseWriter, r *http.Request) {
			gotAccept = r.Header.Get("Accept")
			gotAuth = r.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, []map[string]string{})
		})
		c, store := newClient(t, mux)
		require.NoError(t, store.SetToken("t1"))

		var out []map[string]string
		err := c.DoWithHeaders(context.Background(), http.MethodGet, "/api/dealerships",
			http.Header{"Accept": {"application/json"}}, nil, &out)
		require.NoError(t, err)
		require.Equal(t, "application/json", gotAccept)
		require.Equal(t, "Bearer t1", gotAuth, "bearer applied alongside caller headers")
	})

	t.Run("no token means no authorization header", func(t *testing.T) {
		var sawAuth bool
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/dealerships", func(w http.ResponseWriter, r *http.Request) {
			sawAuth = r.Header.Get("Authorization") != ""
			writeJSON(t, w, http.StatusOK, []map[string]string{})
		})
		c, _ := newClient(t, mux)

		_, err := c.ListDealerships(context.Background())
		require.NoError(t, err)
		require.False(t, sawAuth)
	})

	t.Run("401 clears the session and notifies the handler", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/purchases/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		})
		var notified atomic.Int32
		var c *client.Client
		var store *session.MemoryStore
		c, store = newClient(t, mux, client.WithUnauthorizedHandler(func() {
			notified.Add(1)
		}))
		require.NoError(t, store.Put(session.Session{
			Token:       "t1",
			DisplayName: "Jane",
			LandingRole: roles.LandingAdmin,
			RawRoles:    []string{"Sales_Admin"},
		}))

		_, err := c.MyPurchases(context.Background())
		require.ErrorIs(t, err, client.ErrSessionExpired)
		require.Equal(t, int32(1), notified.Load())

		s := store.Get()
		require.False(t, s.Authenticated())
		require.Empty(t, s.DisplayName, "no partial fields survive")
		require.Empty(t, s.LandingRole)
		require.Empty(t, s.RawRoles)
	})

	t.Run("two 401s end in one signed-out state", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/purchases/me", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		c, store := newClient(t, mux)
		require.NoError(t, store.Put(session.Session{Token: "t1", LandingRole: roles.LandingAdmin}))

		done := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, err := c.MyPurchases(context.Background())
				done <- err
			}()
		}
		for i := 0; i < 2; i++ {
			require.ErrorIs(t, <-done, client.ErrSessionExpired)
		}
		require.False(t, store.Get().Authenticated())
	})

	t.Run("non-401 errors pass through untouched", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusForbidden, map[string]string{"message": "admins only"})
		})
		c, store := newClient(t, mux)
		require.NoError(t, store.SetToken("t1"))

		_, err := c.ListUsers(context.Background())
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		require.True(t, store.Get().Authenticated(), "403 never clears the session")
	})

	t.Run("network failure is not session expiry", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		store := session.NewMemoryStore()
		c, err := client.New(srv.URL, store)
		require.NoError(t, err)
		require.NoError(t, store.SetToken("t1"))
		srv.Close()

		_, err = c.MyPurchases(context.Background())
		require.Error(t, err)
		require.NotErrorIs(t, err, client.ErrSessionExpired)
		var apiErr *client.APIError
		require.False(t, errors.As(err, &apiErr))
		require.True(t, store.Get().Authenticated(), "session survives a network failure")
	})
}

func TestInvites(t *testing.T) {
	t.Run("validate passes the token as a query parameter", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/invites/validate", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "inv-1", r.URL.Query().Get("token"))
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"valid":          true,
				"email":          "new@example.com",
				"dealershipName": "North Lot",
			})
		})
		c, _ := newClient(t, mux)

		details, err := c.ValidateInvite(context.Background(), " inv-1 ")
		require.NoError(t, err)
		require.True(t, details.Valid)
		require.Equal(t, "North Lot", details.DealershipName)
	})

	t.Run("expired invite is a result, not an error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/invites/validate", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]bool{"valid": false})
		})
		c, _ := newClient(t, mux)

		details, err := c.ValidateInvite(context.Background(), "stale")
		require.NoError(t, err)
		require.False(t, details.Valid)
	})

	t.Run("accept with a session response signs the user in", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/invites/accept", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"token":           "t2",
				"username":        "New Hire",
				"dealershipRoles": []map[string]string{{"dealershipId": "d1", "role": "Sales_Associate"}},
			})
		})
		c, store := newClient(t, mux)

		result, err := c.AcceptInvite(context.Background(), "inv-1", "longenough")
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Equal(t, roles.LandingAssociate, result.LandingRole)
		require.Equal(t, "t2", store.Get().Token)
	})

	t.Run("accept without a session leaves sign-in to the user", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/invites/accept", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		c, store := newClient(t, mux)

		result, err := c.AcceptInvite(context.Background(), "inv-1", "longenough")
		require.NoError(t, err)
		require.Nil(t, result)
		require.False(t, store.Get().Authenticated())
	})
}

// The end-to-end shape of a working day: sign in, pass the admin gate, get
// expired by the backend, end signed out.
func TestSessionLifecycle(t *testing.T) {
	expired := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"token":           "t1",
			"username":        "Jane",
			"roles":           []string{"Sales_Admin"},
			"dealershipRoles": []string{"User"},
		})
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		if expired {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, http.StatusOK, []map[string]string{{"username": "jane"}})
	})
	c, store := newClient(t, mux)
	g := guard.New(store)

	_, err := c.Login(context.Background(), "jane@example.com", "pw")
	require.NoError(t, err)
	require.True(t, g.IsAuthenticated())
	require.Equal(t, guard.Allowed, g.Authorize("ADMIN"), "admin-only screen renders")

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	expired = true
	_, err = c.ListUsers(context.Background())
	require.ErrorIs(t, err, client.ErrSessionExpired)
	require.False(t, g.IsAuthenticated())
	require.Equal(t, guard.SignInRequired, g.Authorize("ADMIN"))
}
