package webapp

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.avresk.dev/warden"
	"go.avresk.dev/warden/wardenhash"
	"go.avresk.dev/warden/wardenpassword"
	"go.avresk.dev/warden/wardensession"
)

type memStore struct {
	mu    sync.Mutex
	users map[string]*wardenpassword.Credential
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*wardenpassword.Credential)}
}

func (s *memStore) FindUserByName(
	ctx context.Context,
	name string,
) (*wardenpassword.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.users[name]
	if !ok {
		return nil, warden.ErrUserNotFound
	}

	return cred, nil
}

func (s *memStore) CreateUser(
	ctx context.Context,
	params wardenpassword.CreateUserParams,
) (*warden.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[params.Name]; ok {
		return nil, wardenpassword.ErrNameTaken
	}

	user := warden.User{
		ID:    uuid.New(),
		Name:  params.Name,
		Email: params.Email,
		Age:   params.Age,
	}
	s.users[params.Name] = &wardenpassword.Credential{
		User:           user,
		PasswordDigest: params.PasswordDigest,
		Salt:           params.Salt,
	}

	return &user, nil
}

// fakeSessions keeps sessions in memory and doubles as the logout handler.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]wardensession.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]wardensession.Session)}
}

func (s *fakeSessions) Issue(
	w http.ResponseWriter,
	r *http.Request,
	user warden.User,
) (wardensession.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := wardensession.Session{
		ID:        uuid.New(),
		Principal: wardensession.SerializePrincipal(user),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.sessions[sess.ID.String()] = sess

	http.SetCookie(w, &http.Cookie{Name: "sid", Value: sess.ID.String(), Path: "/"})

	return sess, nil
}

func (s *fakeSessions) Authenticate(
	w http.ResponseWriter,
	r *http.Request,
) (wardensession.Session, error) {
	var sess wardensession.Session

	cookie, err := r.Cookie("sid")
	if err != nil {
		return sess, warden.ErrUnauthenticatedUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[cookie.Value]
	if !ok {
		return sess, warden.ErrUnauthenticatedUser
	}

	return sess, nil
}

func (s *fakeSessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := wardensession.FromRequest(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sess.ID.String())
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "sid", Value: "", Path: "/", MaxAge: -1})

	return nil
}

func testPasswordConfig() *wardenpassword.HTTPConfig {
	return wardenpassword.NewHTTPConfig(func(c *wardenpassword.HTTPConfig) {
		c.Config = wardenpassword.NewConfig(
			wardenpassword.WithHasher(wardenhash.NewArgon2Hasher(wardenhash.Argon2Options{
				Memory:  1024,
				Time:    1,
				Threads: 1,
				KeyLen:  32,
				SaltLen: 16,
			})),
		)
	})
}

type testClient struct {
	t      *testing.T
	client *http.Client
	base   string
}

func newTestApp(t *testing.T) *testClient {
	t.Helper()

	sessions := newFakeSessions()
	app := New(
		newMemStore(),
		sessions,
		sessions,
		prometheus.NewRegistry(),
		NewConfig(func(c *Config) {
			c.CSRFSecret = "test-secret"
			c.Password = testPasswordConfig()
		}),
	)

	handler, err := app.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t: t,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		base: srv.URL,
	}
}

var csrfTokenRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// fetchCSRFToken loads a form page and extracts the CSRF token from it.
// The matching cookie lands in the client's jar.
func (c *testClient) fetchCSRFToken(path string) string {
	c.t.Helper()

	resp, err := c.client.Get(c.base + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	m := csrfTokenRe.FindSubmatch(body)
	require.NotNil(c.t, m, "no CSRF token in %s", path)

	return string(m[1])
}

func (c *testClient) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()

	form.Set("csrf_token", c.fetchCSRFToken(path))

	resp, err := c.client.PostForm(c.base+path, form)
	require.NoError(c.t, err)

	return resp
}

func (c *testClient) signup(name, password string) *http.Response {
	c.t.Helper()

	return c.postForm("/signup", url.Values{
		"name":     {name},
		"password": {password},
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	c := newTestApp(t)

	resp := c.signup("prapor", "no-more-bad-passwords")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = c.postForm("/login", url.Values{
		"name":     {"prapor"},
		"password": {"no-more-bad-passwords"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()

	resp, err := c.client.Get(c.base + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "prapor")

	resp, err = c.client.Get(c.base + "/logout")
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()

	resp, err = c.client.Get(c.base + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestLoginFailureIsUniform(t *testing.T) {
	c := newTestApp(t)

	resp := c.signup("prapor", "no-more-bad-passwords")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()

	unknown := c.postForm("/login", url.Values{
		"name":     {"therapist"},
		"password": {"no-more-bad-passwords"},
	})
	wrong := c.postForm("/login", url.Values{
		"name":     {"prapor"},
		"password": {"not-the-password"},
	})

	// An unknown name and a wrong password are indistinguishable from
	// the outside.
	assert.Equal(t, unknown.StatusCode, wrong.StatusCode)
	assert.Equal(t, http.StatusSeeOther, unknown.StatusCode)
	assert.Equal(t, unknown.Header.Get("Location"), wrong.Header.Get("Location"))
	assert.Equal(t, "/login?failed=1", unknown.Header.Get("Location"))
	assert.Equal(t, readBody(t, unknown), readBody(t, wrong))
}

func TestSignupValidation(t *testing.T) {
	c := newTestApp(t)

	t.Run("missing name redisplays the form", func(t *testing.T) {
		resp := c.postForm("/signup", url.Values{
			"password": {"no-more-bad-passwords"},
			"email":    {"prapor@tarkov.example"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		body := readBody(t, resp)
		assert.Contains(t, body, "name")
		assert.Contains(t, body, "prapor@tarkov.example")
	})

	t.Run("taken name redisplays the form", func(t *testing.T) {
		resp := c.signup("prapor", "no-more-bad-passwords")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		resp.Body.Close()

		resp = c.signup("prapor", "another-fine-password")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "is already taken")
	})
}

func TestCSRFProtection(t *testing.T) {
	c := newTestApp(t)

	// No CSRF cookie, no token: the form never reaches the handler.
	resp, err := c.client.PostForm(c.base+"/login", url.Values{
		"name":     {"prapor"},
		"password": {"no-more-bad-passwords"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestApp(t)

	resp := c.signup("prapor", "no-more-bad-passwords")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()

	resp, err := c.client.Get(c.base + "/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "warden_signup_total")
}

func TestLoginPageRedirectsAuthenticatedUser(t *testing.T) {
	c := newTestApp(t)

	resp := c.signup("prapor", "no-more-bad-passwords")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()

	resp = c.postForm("/login", url.Values{
		"name":     {"prapor"},
		"password": {"no-more-bad-passwords"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()

	resp, err := c.client.Get(c.base + "/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()
}
