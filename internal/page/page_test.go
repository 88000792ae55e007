package page

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/repository"
	"github.com/kitbuilder587/breachsearch/internal/search"
	"github.com/kitbuilder587/breachsearch/internal/search/httpapi"
	searchmock "github.com/kitbuilder587/breachsearch/internal/search/mock"
)

type repoIdentity struct {
	repo   *repository.MockProfileRepository
	userID string
}

func (i *repoIdentity) Current(ctx context.Context) (*domain.User, *domain.Profile) {
	if i.userID == "" {
		return nil, nil
	}
	u, err := i.repo.GetUser(ctx, i.userID)
	if err != nil {
		return nil, nil
	}
	p, _ := i.repo.GetProfile(ctx, i.userID)
	return u, p
}

type recordingNavigator struct {
	mu    sync.Mutex
	calls []Redirect
}

func (n *recordingNavigator) Navigate(path string, delay time.Duration) {
	n.mu.Lock()
	n.calls = append(n.calls, Redirect{Path: path, Delay: delay})
	n.mu.Unlock()
}

type fixture struct {
	page     *Page
	search   *searchmock.Client
	repo     *repository.MockProfileRepository
	identity *repoIdentity
	toasts   *Toasts
	nav      *recordingNavigator
}

func newFixture(t *testing.T, client search.Client, credits int) *fixture {
	t.Helper()

	repo := repository.NewMockProfileRepository()
	repo.Seed(&domain.User{ID: "uid-1", Email: "user@example.com"}, &domain.Profile{FreeSearches: credits})

	f := &fixture{
		repo:     repo,
		identity: &repoIdentity{repo: repo, userID: "uid-1"},
		toasts:   &Toasts{},
		nav:      &recordingNavigator{},
	}
	if client == nil {
		f.search = searchmock.New().WithResult(search.TextResult("ok"))
		client = f.search
	}

	f.page = New(Deps{
		Search:    client,
		Credits:   repo,
		Identity:  f.identity,
		Notifier:  f.toasts,
		Navigator: f.nav,
		Logger:    zap.NewNop(),
	})
	return f
}

func TestPage_SetNavigationalQuery_AutoSearchOncePerValue(t *testing.T) {
	f := newFixture(t, nil, 5)
	ctx := context.Background()

	if got := f.page.SetNavigationalQuery(ctx, "alice@example.com"); got != OutcomeResultReady {
		t.Errorf("mount outcome = %v, want %v", got, OutcomeResultReady)
	}
	if v := f.page.View(ctx); v.Query != "alice@example.com" {
		t.Errorf("Query = %q, want prefilled from navigation", v.Query)
	}

	f.page.SetNavigationalQuery(ctx, "alice@example.com")
	f.page.SetQuery("edited by hand")
	f.page.SetNavigationalQuery(ctx, "alice@example.com")

	if f.search.Calls() != 1 {
		t.Errorf("search calls = %d, want 1 for the same navigational value", f.search.Calls())
	}

	f.page.SetNavigationalQuery(ctx, "bob@example.com")
	if f.search.Calls() != 2 {
		t.Errorf("search calls = %d, want 2 after navigational change", f.search.Calls())
	}
	if f.search.LastQuery != "bob@example.com" {
		t.Errorf("LastQuery = %q, want new navigational value", f.search.LastQuery)
	}
	if v := f.page.View(ctx); v.Query != "bob@example.com" {
		t.Errorf("Query = %q, navigation should overwrite edits", v.Query)
	}
}

func TestPage_SetNavigationalQuery_Blank(t *testing.T) {
	tests := []struct {
		name string
		q    string
	}{
		{"empty", ""},
		{"whitespace", "   \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, 5)

			if got := f.page.SetNavigationalQuery(context.Background(), tt.q); got != OutcomeSkipped {
				t.Errorf("outcome = %v, want skipped", got)
			}
			if f.search.Calls() != 0 {
				t.Errorf("search calls = %d, want 0", f.search.Calls())
			}
			if v := f.page.View(context.Background()); v.Query != tt.q {
				t.Errorf("Query = %q, want %q", v.Query, tt.q)
			}
		})
	}
}

func TestPage_Search_BlankQueryNoop(t *testing.T) {
	for _, q := range []string{"", "  ", "\n\t "} {
		f := newFixture(t, nil, 5)
		f.page.SetQuery(q)
		before := f.page.View(context.Background())

		if got := f.page.Search(context.Background()); got != OutcomeSkipped {
			t.Errorf("Search(%q) = %v, want skipped", q, got)
		}

		after := f.page.View(context.Background())
		if before != after {
			t.Errorf("state changed for blank query: %+v -> %+v", before, after)
		}
		if f.search.Calls() != 0 || len(f.toasts.Drain()) != 0 || len(f.repo.Calls()) != 0 {
			t.Errorf("blank query should be silent, got calls=%d", f.search.Calls())
		}
	}
}

func TestPage_Search_Unauthenticated(t *testing.T) {
	f := newFixture(t, nil, 5)
	f.identity.userID = ""
	f.page.SetQuery("test@example.com")

	if got := f.page.Search(context.Background()); got != OutcomeRejected {
		t.Errorf("Search() = %v, want rejected", got)
	}

	toasts := f.toasts.Drain()
	if len(toasts) != 1 || toasts[0].Message != MsgSignIn || toasts[0].Level != LevelError {
		t.Errorf("toasts = %+v, want sign-in error", toasts)
	}
	if len(f.nav.calls) != 1 || f.nav.calls[0] != (Redirect{Path: "/auth", Delay: 2 * time.Second}) {
		t.Errorf("navigation = %+v, want /auth after 2s", f.nav.calls)
	}
	if f.search.Calls() != 0 {
		t.Errorf("search calls = %d, want 0", f.search.Calls())
	}
}

func TestPage_Search_UnauthenticatedTimerNavigation(t *testing.T) {
	f := newFixture(t, nil, 5)
	f.identity.userID = ""

	went := make(chan string, 1)
	f.page = New(Deps{
		Search:    f.search,
		Credits:   f.repo,
		Identity:  f.identity,
		Notifier:  f.toasts,
		Navigator: TimerNavigator{Go: func(path string) { went <- path }},
		Config:    Config{AuthPath: "/login", RedirectDelay: 20 * time.Millisecond},
	})
	f.page.SetQuery("x")

	start := time.Now()
	f.page.Search(context.Background())

	select {
	case path := <-went:
		if path != "/login" {
			t.Errorf("navigated to %q, want /login", path)
		}
		if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
			t.Errorf("navigated after %v, want delay >= 20ms", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("navigation did not happen")
	}
}

func TestPage_Search_NoCredits(t *testing.T) {
	tests := []struct {
		name    string
		credits int
		noProf  bool
	}{
		{name: "zero", credits: 0},
		{name: "negative", credits: -3},
		{name: "no profile", noProf: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, tt.credits)
			if tt.noProf {
				f.page.identity = identityFunc(func(ctx context.Context) (*domain.User, *domain.Profile) {
					return &domain.User{ID: "uid-1"}, nil
				})
			}
			f.page.SetQuery("test")

			if got := f.page.Search(context.Background()); got != OutcomeRejected {
				t.Errorf("Search() = %v, want rejected", got)
			}

			toasts := f.toasts.Drain()
			if len(toasts) != 1 || toasts[0].Message != MsgNoCredits {
				t.Errorf("toasts = %+v, want no-credits error", toasts)
			}
			if len(f.nav.calls) != 0 {
				t.Errorf("unexpected navigation %+v", f.nav.calls)
			}
			if f.search.Calls() != 0 {
				t.Errorf("search calls = %d, want 0", f.search.Calls())
			}
		})
	}
}

type identityFunc func(ctx context.Context) (*domain.User, *domain.Profile)

func (f identityFunc) Current(ctx context.Context) (*domain.User, *domain.Profile) {
	return f(ctx)
}

func TestPage_Search_JSONScalarBodies(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantMode ResultMode
		wantBody string
	}{
		{"null", `null`, ModePlaceholder, Placeholder},
		{"string", `"alice@example.com leaked in combo-list"`, ModeText, "alice@example.com leaked in combo-list"},
		{"ordered object", `{"source":"forum","hits":2}`, ModeJSON, "{\n  \"source\": \"forum\",\n  \"hits\": 2\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			f := newFixture(t, httpapi.New(httpapi.Config{BaseURL: server.URL}, zap.NewNop()), 5)
			f.page.SetQuery("alice@example.com")

			if got := f.page.Search(context.Background()); got != OutcomeResultReady {
				t.Fatalf("Search() = %v, want result ready", got)
			}
			v := f.page.View(context.Background())
			if v.ResultMode != tt.wantMode {
				t.Errorf("ResultMode = %v, want %v", v.ResultMode, tt.wantMode)
			}
			if v.ResultBody != tt.wantBody {
				t.Errorf("ResultBody = %q, want %q", v.ResultBody, tt.wantBody)
			}
			if len(f.repo.Calls()) != 1 {
				t.Errorf("consume calls = %d, want 1", len(f.repo.Calls()))
			}
		})
	}
}

func TestPage_Search_JSONResultConsumesCredit(t *testing.T) {
	var gotQ string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hits":3}`))
	}))
	defer server.Close()

	f := newFixture(t, httpapi.New(httpapi.Config{BaseURL: server.URL}, zap.NewNop()), 5)
	f.page.SetQuery("test@example.com")

	if got := f.page.Search(context.Background()); got != OutcomeResultReady {
		t.Fatalf("Search() = %v, want result ready", got)
	}
	if gotQ != "test@example.com" {
		t.Errorf("q = %q, want test@example.com", gotQ)
	}

	v := f.page.View(context.Background())
	if v.ResultMode != ModeJSON {
		t.Errorf("ResultMode = %v, want JSON", v.ResultMode)
	}
	if want := "{\n  \"hits\": 3\n}"; v.ResultBody != want {
		t.Errorf("ResultBody = %q, want %q", v.ResultBody, want)
	}
	if v.Loading || v.ButtonDisabled || v.ButtonLabel != LabelSearch {
		t.Errorf("page still loading: %+v", v)
	}

	calls := f.repo.Calls()
	if len(calls) != 1 || calls[0] != (repository.ConsumeCall{UserID: "uid-1", Amount: 1}) {
		t.Errorf("consume calls = %+v, want [(uid-1, 1)]", calls)
	}
	if v.Remaining != "4" {
		t.Errorf("Remaining = %q, want 4 after consumption", v.Remaining)
	}
	if toasts := f.toasts.Drain(); len(toasts) != 0 {
		t.Errorf("unexpected toasts %+v", toasts)
	}
}

func TestPage_Search_ErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"rate limited", http.StatusTooManyRequests, "rate limited", "rate limited"},
		{"empty body", http.StatusBadGateway, "", "Search failed (502)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			f := newFixture(t, httpapi.New(httpapi.Config{BaseURL: server.URL}, zap.NewNop()), 5)
			f.page.SetQuery("test@example.com")

			if got := f.page.Search(context.Background()); got != OutcomeFailed {
				t.Errorf("Search() = %v, want failed", got)
			}

			toasts := f.toasts.Drain()
			if len(toasts) != 1 || toasts[0].Message != tt.wantMsg {
				t.Errorf("toasts = %+v, want %q", toasts, tt.wantMsg)
			}
			if v := f.page.View(context.Background()); v.ResultMode != ModePlaceholder || v.Loading {
				t.Errorf("view = %+v, want placeholder and idle", v)
			}
			if calls := f.repo.Calls(); len(calls) != 0 {
				t.Errorf("credit consumed on failure: %+v", calls)
			}
		})
	}
}

func TestPage_Search_PermissionDeniedSwallowed(t *testing.T) {
	f := newFixture(t, nil, 5)
	f.search.WithResult(search.TextResult("2 records found"))
	f.repo.ConsumeErr = fmt.Errorf("consume search credit: %w", domain.ErrPermissionDenied)
	f.page.SetQuery("test")

	if got := f.page.Search(context.Background()); got != OutcomeResultReady {
		t.Errorf("Search() = %v, want result ready", got)
	}

	v := f.page.View(context.Background())
	if v.ResultMode != ModeText || v.ResultBody != "2 records found" {
		t.Errorf("view = %+v, want text result", v)
	}
	if v.Remaining != "5" {
		t.Errorf("Remaining = %q, want unchanged 5", v.Remaining)
	}
	if toasts := f.toasts.Drain(); len(toasts) != 0 {
		t.Errorf("permission failure should be silent, got %+v", toasts)
	}
}

func TestPage_Search_CreditFailureShown(t *testing.T) {
	f := newFixture(t, nil, 5)
	f.repo.ConsumeErr = errors.New("consume search credit: connection reset")
	f.page.SetQuery("test")

	if got := f.page.Search(context.Background()); got != OutcomeFailed {
		t.Errorf("Search() = %v, want failed", got)
	}

	toasts := f.toasts.Drain()
	if len(toasts) != 1 || toasts[0].Message != "consume search credit: connection reset" {
		t.Errorf("toasts = %+v", toasts)
	}
	if v := f.page.View(context.Background()); v.ResultMode != ModeText || v.Loading {
		t.Errorf("result should stay displayed and page idle: %+v", v)
	}
}

func TestPage_Search_TransportError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"with message", errors.New("do request: connection refused"), "do request: connection refused"},
		{"empty message", errors.New(""), MsgGenericFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := searchmock.New().WithError(tt.err)
			f := newFixture(t, client, 5)
			f.search = client
			f.page.SetQuery("x")

			if got := f.page.Search(context.Background()); got != OutcomeFailed {
				t.Errorf("Search() = %v, want failed", got)
			}
			toasts := f.toasts.Drain()
			if len(toasts) != 1 || toasts[0].Message != tt.wantMsg {
				t.Errorf("toasts = %+v, want %q", toasts, tt.wantMsg)
			}
			if v := f.page.View(context.Background()); v.Loading {
				t.Error("loading should be reset after failure")
			}
		})
	}
}

func TestPage_Search_LoadingWhileInFlight(t *testing.T) {
	client := searchmock.New().WithResult(search.TextResult("done")).WithDelay(100 * time.Millisecond)
	f := newFixture(t, client, 5)
	f.page.SetQuery("x")

	done := make(chan Outcome)
	go func() { done <- f.page.Search(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for {
		v := f.page.View(context.Background())
		if v.Loading {
			if !v.ButtonDisabled || v.ButtonLabel != LabelSearching || v.ResultMode != ModePlaceholder {
				t.Errorf("loading view = %+v", v)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("page never entered loading state")
		}
		time.Sleep(5 * time.Millisecond)
	}

	<-done
	if v := f.page.View(context.Background()); v.Loading || v.ResultBody != "done" {
		t.Errorf("final view = %+v", v)
	}
}

type scriptedSearch struct {
	delays map[string]time.Duration
}

func (s *scriptedSearch) Search(ctx context.Context, query string) (search.Result, error) {
	time.Sleep(s.delays[query])
	return search.TextResult("result for " + query), nil
}

func TestPage_Search_LatestDispatchWins(t *testing.T) {
	client := &scriptedSearch{delays: map[string]time.Duration{
		"slow": 150 * time.Millisecond,
		"fast": 10 * time.Millisecond,
	}}
	f := newFixture(t, client, 5)

	var wg sync.WaitGroup
	f.page.SetQuery("slow")
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.page.Search(context.Background())
	}()

	time.Sleep(30 * time.Millisecond)
	f.page.SetQuery("fast")
	f.page.Search(context.Background())

	v := f.page.View(context.Background())
	if v.ResultBody != "result for fast" {
		t.Errorf("ResultBody = %q after fast search", v.ResultBody)
	}
	if v.Loading {
		t.Error("latest search finished, page should be idle")
	}
	wg.Wait()

	v = f.page.View(context.Background())
	if v.ResultBody != "result for fast" {
		t.Errorf("stale search overwrote result: %q", v.ResultBody)
	}
	if len(f.repo.Calls()) != 2 {
		t.Errorf("consume calls = %d, want 2", len(f.repo.Calls()))
	}
}
