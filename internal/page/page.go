package page

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/metrics"
	"github.com/kitbuilder587/breachsearch/internal/repository"
	"github.com/kitbuilder587/breachsearch/internal/search"
)

const (
	MsgSignIn        = "Please sign in to search."
	MsgNoCredits     = "No searches remaining. Please purchase more."
	MsgGenericFailed = "Search error."

	DefaultAuthPath      = "/auth"
	DefaultRedirectDelay = 2 * time.Second
)

// Identity - текущий пользователь и его профиль. user == nil значит не вошел.
type Identity interface {
	Current(ctx context.Context) (*domain.User, *domain.Profile)
}

type CreditConsumer interface {
	ConsumeSearchCredit(ctx context.Context, userID string, amount int) error
}

type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeRejected
	OutcomeResultReady
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRejected:
		return "rejected"
	case OutcomeResultReady:
		return "result_ready"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Config struct {
	AuthPath      string
	RedirectDelay time.Duration
}

type Deps struct {
	Search    search.Client
	Credits   CreditConsumer
	Identity  Identity
	Notifier  Notifier
	Navigator Navigator
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Config    Config

	// IsPermissionDenied классифицирует ошибки стора кредитов
	IsPermissionDenied func(error) bool
}

type Page struct {
	search    search.Client
	credits   CreditConsumer
	identity  Identity
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger
	metrics   *metrics.Metrics
	config    Config
	denied    func(error) bool

	mu       sync.Mutex
	mounted  bool
	navQuery string
	query    string
	loading  bool
	result   search.Result
	seq      uint64
}

func New(deps Deps) *Page {
	if deps.Config.AuthPath == "" {
		deps.Config.AuthPath = DefaultAuthPath
	}
	if deps.Config.RedirectDelay == 0 {
		deps.Config.RedirectDelay = DefaultRedirectDelay
	}
	if deps.IsPermissionDenied == nil {
		deps.IsPermissionDenied = repository.IsPermissionDenied
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Page{
		search:    deps.Search,
		credits:   deps.Credits,
		identity:  deps.Identity,
		notifier:  deps.Notifier,
		navigator: deps.Navigator,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		config:    deps.Config,
		denied:    deps.IsPermissionDenied,
	}
}

// SetNavigationalQuery применяет q из адреса страницы. Первый вызов - это mount.
// Поле запроса перезаписывается, и для непустого q стартует поиск; повторный
// вызов с тем же значением ничего не делает.
func (p *Page) SetNavigationalQuery(ctx context.Context, q string) Outcome {
	p.mu.Lock()
	if p.mounted && p.navQuery == q {
		p.mu.Unlock()
		return OutcomeSkipped
	}
	p.mounted = true
	p.navQuery = q
	p.query = q
	p.mu.Unlock()

	if strings.TrimSpace(q) == "" {
		return OutcomeSkipped
	}
	return p.Search(ctx)
}

// SetQuery - правка поля пользователем, автопоиск не запускает
func (p *Page) SetQuery(q string) {
	p.mu.Lock()
	p.query = q
	p.mu.Unlock()
}

func (p *Page) NavigationalQuery() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navQuery
}

func (p *Page) Search(ctx context.Context) Outcome {
	p.mu.Lock()
	query := strings.TrimSpace(p.query)
	p.mu.Unlock()

	if query == "" {
		return OutcomeSkipped
	}

	user, profile := p.identity.Current(ctx)
	if user == nil {
		p.notify(LevelError, MsgSignIn)
		p.navigator.Navigate(p.config.AuthPath, p.config.RedirectDelay)
		return OutcomeRejected
	}

	remaining := domain.ComputeRemaining(profile)
	if !domain.RemainingIsUsable(remaining) {
		p.notify(LevelError, MsgNoCredits)
		return OutcomeRejected
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.loading = true
	p.result = search.Result{}
	p.mu.Unlock()

	defer p.finish(seq)

	outcome := p.run(ctx, seq, user, query)
	p.logger.Info("search finished",
		zap.String("user_id", user.ID),
		zap.String("outcome", outcome.String()),
		zap.Uint64("seq", seq),
	)
	return outcome
}

func (p *Page) run(ctx context.Context, seq uint64, user *domain.User, query string) Outcome {
	start := time.Now()
	result, err := p.search.Search(ctx, query)
	if err != nil {
		var statusErr *search.StatusError
		if errors.As(err, &statusErr) {
			p.recordSearch("http_error", start)
			p.logger.Warn("search backend returned error status",
				zap.Int("status", statusErr.Status),
				zap.String("user_id", user.ID),
			)
			p.notify(LevelError, statusErr.Message())
			return OutcomeFailed
		}
		p.recordSearch("error", start)
		return p.fail(err)
	}
	p.recordSearch("ok", start)
	p.setResult(seq, result)

	if err := p.credits.ConsumeSearchCredit(ctx, user.ID, 1); err != nil {
		if p.denied(err) {
			p.logger.Warn("Skipping credit consumption due to permission error.",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
			if p.metrics != nil {
				p.metrics.RecordCreditPermissionSkip()
			}
			return OutcomeResultReady
		}
		return p.fail(err)
	}
	if p.metrics != nil {
		p.metrics.RecordCreditConsumed(1)
	}

	return OutcomeResultReady
}

func (p *Page) fail(err error) Outcome {
	p.logger.Error("search failed", zap.Error(err))
	msg := err.Error()
	if msg == "" {
		msg = MsgGenericFailed
	}
	p.notify(LevelError, msg)
	return OutcomeFailed
}

func (p *Page) setResult(seq uint64, result search.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq == p.seq {
		p.result = result
	}
}

func (p *Page) finish(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq == p.seq {
		p.loading = false
	}
}

func (p *Page) notify(level Level, msg string) {
	if p.metrics != nil {
		p.metrics.RecordNotification(string(level))
	}
	p.notifier.Notify(Notification{Level: level, Message: msg})
}

func (p *Page) recordSearch(status string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordSearchRequest(status, time.Since(start))
	}
}
