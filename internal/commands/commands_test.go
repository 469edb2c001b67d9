package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cedadev/xfc-client/internal/app"
	"github.com/cedadev/xfc-client/internal/config"
	"github.com/cedadev/xfc-client/internal/format"
	"github.com/cedadev/xfc-client/internal/services/xfc"
	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeClient implements xfc.ClientAPI with per-method hooks and counts
// every call so tests can assert that no request was made
type fakeClient struct {
	getUser     func(name string) (*xfc.User, error)
	createUser  func(name, email string) (*xfc.User, error)
	updateEmail func(name, email string) (*xfc.User, error)
	setNotify   func(name string, notify bool) (*xfc.User, error)
	listFiles   func(name, match string) ([]xfc.File, error)
	scheduled   func(name string) ([]xfc.ScheduledDeletion, error)
	predict     func(name string) (*xfc.Prediction, error)
	calls       int
}

var errNotStubbed = errors.New("not stubbed")

func (f *fakeClient) GetUser(name string) (*xfc.User, error) {
	f.calls++
	if f.getUser == nil {
		return nil, errNotStubbed
	}
	return f.getUser(name)
}

func (f *fakeClient) CreateUser(name, email string) (*xfc.User, error) {
	f.calls++
	if f.createUser == nil {
		return nil, errNotStubbed
	}
	return f.createUser(name, email)
}

func (f *fakeClient) UpdateEmail(name, email string) (*xfc.User, error) {
	f.calls++
	if f.updateEmail == nil {
		return nil, errNotStubbed
	}
	return f.updateEmail(name, email)
}

func (f *fakeClient) SetNotify(name string, notify bool) (*xfc.User, error) {
	f.calls++
	if f.setNotify == nil {
		return nil, errNotStubbed
	}
	return f.setNotify(name, notify)
}

func (f *fakeClient) ListFiles(name, match string) ([]xfc.File, error) {
	f.calls++
	if f.listFiles == nil {
		return nil, errNotStubbed
	}
	return f.listFiles(name, match)
}

func (f *fakeClient) ScheduledDeletions(name string) ([]xfc.ScheduledDeletion, error) {
	f.calls++
	if f.scheduled == nil {
		return nil, errNotStubbed
	}
	return f.scheduled(name)
}

func (f *fakeClient) PredictDeletions(name string) (*xfc.Prediction, error) {
	f.calls++
	if f.predict == nil {
		return nil, errNotStubbed
	}
	return f.predict(name)
}

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	previous := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = previous })
}

func newTestContainer(t *testing.T, client xfc.ClientAPI) (*app.Container, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Username = "testuser"

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var buf bytes.Buffer
	ctr, err := app.NewContainer(cfg,
		app.WithClient(client),
		app.WithOutput(&buf),
		app.WithLogger(logger),
	)
	require.NoError(t, err)

	return ctr, &buf
}

func testUser() *xfc.User {
	return &xfc.User{
		Name:          "testuser",
		Email:         "testuser@example.org",
		QuotaSize:     20,
		QuotaUsed:     5,
		HardLimitSize: 200 << 30,
		TotalUsed:     50 << 30,
		CachePath:     "/cache/testuser",
	}
}

func TestInfoSuccess(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{getUser: func(string) (*xfc.User, error) { return testUser(), nil }}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Info(ctr))
	out := buf.String()

	assert.Contains(t, out, "** SUCCESS ** - user info:")
	assert.Contains(t, out, "    Username            : testuser\n")
	assert.Contains(t, out, "    Email               : testuser@example.org\n")
	assert.Contains(t, out, "    Temporal Quota (TQ) :    20 bytes days\n")
	assert.Contains(t, out, "    Hard Quota (HQ)     : 200.0 GB\n")
	assert.Contains(t, out, "    Path                : /cache/testuser\n")
}

func TestPathPrintsBarePath(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{getUser: func(string) (*xfc.User, error) { return testUser(), nil }}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Path(ctr))
	assert.Equal(t, "/cache/testuser\n", buf.String())
}

func TestEmailGet(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{getUser: func(string) (*xfc.User, error) { return testUser(), nil }}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Email(ctr, ""))
	assert.Equal(t, "testuser@example.org\n", buf.String())
}

func TestEmailUpdate(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		updateEmail: func(name, email string) (*xfc.User, error) {
			assert.Equal(t, "testuser", name)
			user := testUser()
			user.Email = email
			return user, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Email(ctr, "new@example.org"))
	assert.Contains(t, buf.String(), "** SUCCESS ** - user email updated to: new@example.org")
}

func TestInitSuccess(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		createUser: func(name, email string) (*xfc.User, error) {
			assert.Equal(t, "testuser", name)
			assert.Equal(t, "a@b.org", email)
			return testUser(), nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Init(ctr, "a@b.org"))
	assert.Contains(t, buf.String(), "** SUCCESS ** - user initialised with:")
}

func TestInitFailure(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		createUser: func(string, string) (*xfc.User, error) {
			return nil, &xfc.ServerError{StatusCode: http.StatusForbidden, Message: "user suspended"}
		},
	}
	ctr, buf := newTestContainer(t, client)

	err := Init(ctr, "")
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, buf.String(), "** ERROR ** - cannot initialise user testuser")
	assert.Contains(t, buf.String(), "** ERROR ** - user suspended")
}

func TestNotInitialisedMessage(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{getUser: func(string) (*xfc.User, error) { return nil, xfc.ErrNotInitialized }}
	ctr, buf := newTestContainer(t, client)

	err := Info(ctr)
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, buf.String(), "** ERROR ** - User testuser not initialised yet.")
	assert.Contains(t, buf.String(), "Run xfc init first.")
}

func TestServerErrorMessage(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) {
			return nil, &xfc.ServerError{StatusCode: http.StatusInternalServerError, Message: "quota exceeded"}
		},
	}
	ctr, buf := newTestContainer(t, client)

	err := Quota(ctr)
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, buf.String(), "** ERROR ** - quota exceeded")
}

func TestServerErrorWithoutMessagePrintsStatus(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) {
			return nil, &xfc.ServerError{StatusCode: http.StatusBadGateway}
		},
	}
	ctr, buf := newTestContainer(t, client)

	err := Quota(ctr)
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, buf.String(), "** ERROR ** 502")
}

func TestNetworkErrorReported(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) {
			return nil, &xfc.NetworkError{Err: fmt.Errorf("connection refused")}
		},
	}
	ctr, buf := newTestContainer(t, client)

	err := Path(ctr)
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, buf.String(), "** ERROR ** - cannot contact xfc server: connection refused")
}

func TestQuotaPositiveRemaining(t *testing.T) {
	withColor(t, true)
	client := &fakeClient{getUser: func(string) (*xfc.User, error) { return testUser(), nil }}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Quota(ctr))
	out := buf.String()

	assert.Contains(t, out, "Quota for user: testuser")
	assert.Contains(t, out, "  Temporal Quota (TQ)\n")
	assert.Contains(t, out, "    Used      :     5 bytes days\n")
	assert.Contains(t, out, "    Allocated :    20 bytes days\n")
	// remaining is positive on both quotas, so green
	assert.Contains(t, out, "\x1b[92m    Remaining :    15 bytes")
	assert.Contains(t, out, "\x1b[92m    Remaining : 150.0 GB")
	assert.NotContains(t, out, "\x1b[91m    Remaining")
}

func TestQuotaNegativeRemaining(t *testing.T) {
	withColor(t, true)
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) {
			user := testUser()
			user.QuotaUsed = 25 // 5 days over the 20 allocated
			return user, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Quota(ctr))

	// a negative remainder renders as "0 bytes", colored red
	assert.Contains(t, buf.String(), "\x1b[91m    Remaining : 0 bytes")
}

func TestNotifyTogglesOn(t *testing.T) {
	withColor(t, false)
	var sent *bool
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) { return testUser(), nil }, // Notify false
		setNotify: func(name string, notify bool) (*xfc.User, error) {
			sent = &notify
			user := testUser()
			user.Notify = notify
			return user, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Notify(ctr))
	require.NotNil(t, sent)
	assert.True(t, *sent)
	assert.Contains(t, buf.String(), "** SUCCESS ** - user notifcations updated to: on")
}

func TestNotifyTogglesOff(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) {
			user := testUser()
			user.Notify = true
			return user, nil
		},
		setNotify: func(name string, notify bool) (*xfc.User, error) {
			assert.False(t, notify)
			user := testUser()
			return user, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Notify(ctr))
	assert.Contains(t, buf.String(), "updated to: off")
}

func TestNotifyUpdateFailureReported(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		getUser: func(string) (*xfc.User, error) { return testUser(), nil },
		setNotify: func(string, bool) (*xfc.User, error) {
			return nil, &xfc.ServerError{StatusCode: http.StatusInternalServerError, Message: "update failed"}
		},
	}
	ctr, buf := newTestContainer(t, client)

	err := Notify(ctr)
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, buf.String(), "** ERROR ** - update failed")
}

func TestSortFlagConflictMakesNoRequest(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{}
	ctr, buf := newTestContainer(t, client)

	for _, run := range []func() error{
		func() error { return List(ctr, "", format.ListOptions{SortTQ: true, SortHQ: true}) },
		func() error { return Schedule(ctr, format.ListOptions{SortTQ: true, SortHQ: true}) },
		func() error { return Predict(ctr, format.ListOptions{SortTQ: true, SortHQ: true}) },
	} {
		buf.Reset()
		err := run()
		assert.ErrorIs(t, err, ErrReported)
		assert.Contains(t, buf.String(),
			"** ERROR ** cannot sort by both Temporal Quota used (TQ) and file size (HQ).")
	}
	assert.Zero(t, client.calls)
}

func TestScheduleNoFiles(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		scheduled: func(string) ([]xfc.ScheduledDeletion, error) {
			return []xfc.ScheduledDeletion{{CacheDisk: "/cache/disk1"}}, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Schedule(ctr, format.ListOptions{}))
	assert.Contains(t, buf.String(), "No files scheduled for deletion")
}

func TestScheduleOutput(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		scheduled: func(string) ([]xfc.ScheduledDeletion, error) {
			return []xfc.ScheduledDeletion{
				{
					CacheDisk:  "/cache/disk1",
					TimeDelete: "2021-03-02T09:30:00Z",
					Files: []xfc.File{
						{Path: "old.nc", Size: 100, FirstSeen: "2020-01-01T00:00:00Z", QuotaUsed: 1},
					},
				},
			}, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Schedule(ctr, format.ListOptions{}))
	out := buf.String()

	assert.Contains(t, out, "Files scheduled for deletion on 2 Mar 2021 09:30")
	assert.Contains(t, out, "old.nc\n")
}

func TestPredictNeverExceeded(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		predict: func(string) (*xfc.Prediction, error) { return &xfc.Prediction{}, nil },
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Predict(ctr, format.ListOptions{}))
	assert.Contains(t, buf.String(), "Quota will never be exceeded!")
}

func TestPredictOutput(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		predict: func(string) (*xfc.Prediction, error) {
			return &xfc.Prediction{
				TimePredict: "2021-06-01T12:00:00Z",
				OverQuota:   5,
				Files:       []xfc.File{{Path: "big.nc", Size: 1 << 30}},
			}, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, Predict(ctr, format.ListOptions{}))
	out := buf.String()

	// the day count goes through the byte formatter, labels included
	assert.Contains(t, out, "Quota is predicted to be exceeded on 1 Jun 2021 12:00 by     5 bytes days")
	assert.Contains(t, out, "Files predicted to be deleted\n")
	assert.Contains(t, out, "big.nc\n")
}

func TestListPassesMatchThrough(t *testing.T) {
	withColor(t, false)
	client := &fakeClient{
		listFiles: func(name, match string) ([]xfc.File, error) {
			assert.Equal(t, "testuser", name)
			assert.Equal(t, "tas_", match)
			return []xfc.File{{Path: "tas_day.nc"}}, nil
		},
	}
	ctr, buf := newTestContainer(t, client)

	require.NoError(t, List(ctr, "tas_", format.ListOptions{}))
	assert.Equal(t, "tas_day.nc\n", buf.String())
}

// TestListEndToEnd drives the real client against a mock API and checks
// the fully rendered -i output
func TestListEndToEnd(t *testing.T) {
	withColor(t, true)

	router := gin.New()
	router.GET("/api/v1/file", func(c *gin.Context) {
		c.JSON(http.StatusOK, []xfc.File{
			{Path: "a.nc", Size: 2147483648, QuotaUsed: 3, CacheDisk: "/cache", FirstSeen: "2020-01-01T00:00:00Z"},
		})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.DefaultConfig()
	cfg.Username = "testuser"
	cfg.ServerURL = server.URL

	var buf bytes.Buffer
	ctr, err := app.NewContainer(cfg,
		app.WithClient(xfc.NewClient(server.URL, true, 5*time.Second, logger)),
		app.WithOutput(&buf),
		app.WithLogger(logger),
	)
	require.NoError(t, err)

	require.NoError(t, List(ctr, "", format.ListOptions{Info: true}))
	out := buf.String()

	assert.Contains(t, out, "\x1b[93m") // 2 GiB is in the yellow GB range
	assert.Contains(t, out, "  2.0 GB")
	assert.Contains(t, out, "(TQ)3.0d ")
	assert.Contains(t, out, "a.nc\n")
	assert.NotContains(t, out, "/cache/a.nc")
}
