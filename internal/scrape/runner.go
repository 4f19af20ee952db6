package scrape

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitscan-engine/internal/browser"
	"recruitscan-engine/internal/config"
	"recruitscan-engine/internal/domain"
	"recruitscan-engine/internal/events"
	"recruitscan-engine/internal/export"
	"recruitscan-engine/internal/extract"
	"recruitscan-engine/internal/scrape/util"
	"recruitscan-engine/internal/secrets"
	"recruitscan-engine/internal/store"
)

// Params is the per-run configuration bundle handed over by the shell.
// Empty fields fall back to the engine config's search defaults.
type Params struct {
	SearchURL string `json:"search_url"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	OutputDir string `json:"output_dir"`
}

// Summary is the structured "done" signal for a finished run.
type Summary struct {
	RunID         string `json:"run_id"`
	Status        string `json:"status"`
	RowsWritten   int    `json:"rows_written"`
	LastPage      int    `json:"last_page"`
	NextStartPage int    `json:"next_start_page"`
	OutputPath    string `json:"output_path"`
}

// Runner walks listing pages, extracts and classifies each profile, and
// appends accepted rows to the run's CSV. One browser page, one profile at a
// time; the site's daily view limit makes serial processing the only sane
// schedule, and it keeps runs resumable at page granularity.
type Runner struct {
	Cfg config.Config
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.Logger

	// NewBrowser attaches to the operator's Chrome. Injected so tests can
	// substitute a scripted page.
	NewBrowser func(ctx context.Context) (browser.Controller, error)

	// OnStatus is invoked at least once per completed page and once per
	// terminal transition.
	OnStatus func(RunStatus)

	// Pusher receives each page's accepted rows as the page completes. Nil
	// plus an enabled Airtable config means push to Airtable; rows are never
	// buffered across pages.
	Pusher RowPusher

	// Now is pinned in tests; nil means time.Now.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) status(st RunStatus) {
	if r.OnStatus != nil {
		r.OnStatus(st)
	}
}

func (r *Runner) publish(runID, typ string, data any) {
	if r.Hub != nil {
		r.Hub.Publish(events.MakeEvent(runID, typ, 1, data))
	}
}

// publishChallenge includes where the browser actually landed, so the
// operator knows which page to clear by hand.
func (r *Runner) publishChallenge(ctx context.Context, b browser.Controller, runID string, data map[string]any) {
	if at, err := b.CurrentURL(ctx); err == nil && at != "" {
		data["at_url"] = at
	}
	r.publish(runID, events.TypeChallenge, data)
}

// resolveParams overlays the shell's bundle on the configured defaults.
func (r *Runner) resolveParams(p Params) (Params, error) {
	if p.SearchURL == "" {
		p.SearchURL = r.Cfg.Search.URL
	}
	if p.StartPage == 0 {
		p.StartPage = r.Cfg.Search.StartPage
	}
	if p.EndPage == 0 {
		p.EndPage = r.Cfg.Search.EndPage
	}
	if p.OutputDir == "" {
		p.OutputDir = r.Cfg.Search.OutputDir
	}

	if p.SearchURL == "" {
		return p, errors.New("search URL is required")
	}
	if p.StartPage < 1 {
		return p, fmt.Errorf("start page must be >= 1, got %d", p.StartPage)
	}
	if p.EndPage < p.StartPage {
		return p, fmt.Errorf("end page %d is before start page %d", p.EndPage, p.StartPage)
	}
	if p.OutputDir == "" {
		return p, errors.New("output directory is required")
	}
	return p, nil
}

// Run executes one complete run. The returned Summary is valid for every
// terminal status; err is non-nil only for setup faults and hard failures.
func (r *Runner) Run(ctx context.Context, p Params) (Summary, error) {
	p, err := r.resolveParams(p)
	if err != nil {
		return Summary{Status: StatusError}, err
	}

	// Fatal setup fault: no browser, no run. We never enter Running.
	b, err := r.NewBrowser(ctx)
	if err != nil {
		return Summary{Status: StatusError}, fmt.Errorf("browser setup: %w", err)
	}
	defer b.Close()

	startedAt := r.now()
	sink, err := export.NewCSVSink(p.OutputDir, r.Cfg.Output.CSV.FilenamePattern, startedAt)
	if err != nil {
		return Summary{Status: StatusError}, err
	}
	defer sink.Close()

	runID := uuid.NewString()
	run := store.Run{
		ID:          runID,
		SearchURL:   p.SearchURL,
		StartPage:   p.StartPage,
		EndPage:     p.EndPage,
		CurrentPage: p.StartPage - 1,
		Status:      StatusRunning,
		OutputPath:  sink.Path(),
		StartedAt:   startedAt.UTC().Format(time.RFC3339),
	}
	if err := store.InsertRun(ctx, r.DB, run); err != nil {
		return Summary{Status: StatusError}, fmt.Errorf("record run: %w", err)
	}

	log := r.Log.With(zap.String("run_id", runID))
	log.Info("run started",
		zap.Int("start_page", p.StartPage),
		zap.Int("end_page", p.EndPage),
		zap.String("output", sink.Path()),
	)
	r.publish(runID, events.TypeRunStarted, map[string]any{
		"start_page": p.StartPage, "end_page": p.EndPage, "output_path": sink.Path(),
	})
	r.status(RunStatus{
		Status: StatusRunning, RunID: runID, SearchURL: p.SearchURL,
		StartPage: p.StartPage, EndPage: p.EndPage, CurrentPage: p.StartPage - 1,
		OutputPath: sink.Path(), StartedAt: run.StartedAt,
	})

	pacer := util.NewPacer(r.Cfg.Browser.NavPerMinute,
		time.Duration(r.Cfg.Browser.MinDelayMs)*time.Millisecond,
		time.Duration(r.Cfg.Browser.MaxDelayMs)*time.Millisecond)

	st := runState{runID: runID, params: p, lastPage: p.StartPage - 1}

	finalStatus, runErr := r.walkPages(ctx, b, pacer, &st, sink, r.pusher(log), log)

	summary := Summary{
		RunID:         runID,
		Status:        finalStatus,
		RowsWritten:   sink.Rows(),
		LastPage:      st.lastPage,
		NextStartPage: st.lastPage + 1,
		OutputPath:    sink.Path(),
	}

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	// Bookkeeping contexts deliberately ignore run cancellation: a stopped
	// run must still record where it stopped.
	fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.FinishRun(fctx, r.DB, runID, finalStatus, errMsg, sink.Rows()); err != nil {
		log.Warn("finish run bookkeeping failed", zap.Error(err))
	}

	switch finalStatus {
	case StatusError:
		r.publish(runID, events.TypeRunError, summary)
	default:
		r.publish(runID, events.TypeRunDone, summary)
	}
	r.status(RunStatus{
		Status: finalStatus, RunID: runID, SearchURL: p.SearchURL,
		StartPage: p.StartPage, EndPage: p.EndPage, CurrentPage: st.lastPage,
		RowsWritten: sink.Rows(), OutputPath: sink.Path(), LastError: errMsg,
		StartedAt:  run.StartedAt,
		FinishedAt: r.now().UTC().Format(time.RFC3339),
	})
	log.Info("run finished",
		zap.String("status", finalStatus),
		zap.Int("rows", sink.Rows()),
		zap.Int("last_page", st.lastPage),
		zap.Int("next_start_page", st.lastPage+1),
	)
	return summary, runErr
}

type runState struct {
	runID    string
	params   Params
	lastPage int
}

// RowPusher forwards accepted rows to a secondary destination. The CSV is
// the source of truth; push failures are logged and never fail the run.
type RowPusher interface {
	Push(ctx context.Context, cands []domain.Candidate) error
}

// pusher resolves the per-page destination. The keyring lookup happens once
// per run, before the first page.
func (r *Runner) pusher(log *zap.Logger) RowPusher {
	if r.Pusher != nil {
		return r.Pusher
	}
	if !r.Cfg.Output.Airtable.Enabled {
		return nil
	}
	key, err := r.airtableKey()
	if err != nil {
		log.Warn("airtable disabled for this run", zap.Error(err))
		return nil
	}
	return export.NewAirtable(r.Cfg.Output.Airtable.BaseID, r.Cfg.Output.Airtable.Table, key)
}

func (r *Runner) walkPages(
	ctx context.Context,
	b browser.Controller,
	pacer *util.Pacer,
	st *runState,
	sink *export.CSVSink,
	pusher RowPusher,
	log *zap.Logger,
) (string, error) {
	perPage := r.Cfg.Search.ProfilesPerPage
	if perPage <= 0 {
		perPage = 25
	}

	for page := st.params.StartPage; page <= st.params.EndPage; page++ {
		if ctx.Err() != nil {
			return StatusStopped, nil
		}
		plog := log.With(zap.Int("page", page))
		r.publish(st.runID, events.TypePageStarted, map[string]any{"page": page})

		pageURL := util.PageURL(st.params.SearchURL, page, perPage)
		if err := r.navigate(ctx, b, pacer, pageURL); err != nil {
			switch {
			case errors.Is(err, browser.ErrChallenge):
				plog.Warn("challenge on listing page; stopping for manual intervention")
				r.publishChallenge(ctx, b, st.runID, map[string]any{"page": page})
				return StatusStopped, nil
			case errors.Is(err, context.Canceled):
				return StatusStopped, nil
			default:
				return StatusError, fmt.Errorf("listing page %d: %w", page, err)
			}
		}

		html, err := b.ReadHTML(ctx, "body")
		if err != nil {
			return StatusError, fmt.Errorf("read listing page %d: %w", page, err)
		}
		links, err := ProfileLinks(html, pageURL)
		if err != nil {
			return StatusError, fmt.Errorf("parse listing page %d: %w", page, err)
		}
		if len(links) == 0 {
			plog.Warn("no profiles on listing page; assuming end of results")
			return StatusCompleted, nil
		}
		plog.Info("listing page loaded", zap.Int("profiles", len(links)))

		var pageAccepted []domain.Candidate
		for _, link := range links {
			// Stop must take effect between profiles, not just between pages.
			if ctx.Err() != nil {
				return StatusStopped, nil
			}

			status, err := r.processProfile(ctx, b, pacer, st, sink, &pageAccepted, link, plog)
			if status != "" {
				return status, err
			}
		}

		// The page is complete: persist the cursor before moving on.
		st.lastPage = page
		if err := store.UpdateRunProgress(ctx, r.DB, st.runID, page, sink.Rows()); err != nil {
			plog.Warn("persist progress failed", zap.Error(err))
		}
		if pusher != nil && len(pageAccepted) > 0 {
			// Rows are already in the CSV; a stop right now must not lose the
			// page's push.
			pctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := pusher.Push(pctx, pageAccepted); err != nil {
				plog.Warn("row push failed", zap.Error(err), zap.Int("rows", len(pageAccepted)))
			}
			cancel()
		}
		r.publish(st.runID, events.TypePageDone, map[string]any{
			"page": page, "rows_written": sink.Rows(),
		})
		r.status(RunStatus{
			Status: StatusRunning, RunID: st.runID, SearchURL: st.params.SearchURL,
			StartPage: st.params.StartPage, EndPage: st.params.EndPage,
			CurrentPage: page, RowsWritten: sink.Rows(), OutputPath: sink.Path(),
		})
	}

	return StatusCompleted, nil
}

// processProfile handles one profile end to end. A non-empty returned status
// terminates the whole run.
func (r *Runner) processProfile(
	ctx context.Context,
	b browser.Controller,
	pacer *util.Pacer,
	st *runState,
	sink *export.CSVSink,
	accepted *[]domain.Candidate,
	link string,
	log *zap.Logger,
) (terminal string, err error) {
	seen, err := store.IsSeen(ctx, r.DB, link)
	if err != nil {
		return StatusError, fmt.Errorf("seen lookup: %w", err)
	}
	if seen {
		log.Debug("profile already processed; skipping", zap.String("url", link))
		return "", nil
	}

	cand := domain.Candidate{ProfileURL: link}
	parsed := false

	if navErr := r.navigate(ctx, b, pacer, link); navErr != nil {
		switch {
		case errors.Is(navErr, browser.ErrChallenge):
			log.Warn("challenge on profile; stopping for manual intervention", zap.String("url", link))
			r.publishChallenge(ctx, b, st.runID, map[string]any{"url": link})
			return StatusStopped, nil
		case errors.Is(navErr, context.Canceled):
			return StatusStopped, nil
		default:
			// Retries exhausted: degrade to an unparseable row instead of
			// silently dropping the candidate.
			log.Warn("profile navigation failed", zap.String("url", link), zap.Error(navErr))
		}
	} else {
		text, readErr := b.ReadText(ctx, "body")
		if readErr != nil {
			log.Warn("profile read failed", zap.String("url", link), zap.Error(readErr))
		} else if prof, ok := extract.ParseProfile(text); ok {
			parsed = true
			cls := extract.Classify(prof.Education, r.now())
			cand.FullName = prof.FullName
			cand.Company = prof.Company
			cand.Title = prof.Title
			cand.Location = util.NormalizeLocation(prof.Location)
			cand.Review = cls.Review
			cand.GradYear = cls.GradYear
			cand.YearsExperience = cls.YearsExperience
		}
	}

	if !parsed {
		cand.Review = domain.FlagUnparseable
	}

	keep, reason := ShouldKeepCandidate(r.Cfg, cand)
	if keep {
		for _, flag := range TitleFlags(r.Cfg, cand.Title) {
			cand.AppendReview(flag)
		}
		if err := sink.Append(cand); err != nil {
			return StatusError, fmt.Errorf("write row: %w", err)
		}
		*accepted = append(*accepted, cand)
		r.publish(st.runID, events.TypeCandidateSaved, map[string]any{
			"name": cand.FullName, "url": cand.ProfileURL, "review": cand.Review,
		})
	} else {
		log.Info("candidate excluded",
			zap.String("reason", reason),
			zap.String("title", cand.Title),
			zap.Int("grad_year", cand.GradYear),
			zap.String("url", link),
		)
	}

	// The row may already be in the file; the mark must land even when the
	// run context was just cancelled.
	mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := store.MarkSeen(mctx, r.DB, link, st.runID); err != nil {
		log.Warn("mark seen failed", zap.String("url", link), zap.Error(err))
	}
	return "", nil
}

// navigate paces and retries. Timeouts are transient and retried a bounded
// number of times; challenges and cancellation pass straight through.
func (r *Runner) navigate(ctx context.Context, b browser.Controller, pacer *util.Pacer, url string) error {
	attempts := r.Cfg.Browser.NavRetries + 1
	var err error
	for i := 0; i < attempts; i++ {
		if err = pacer.Wait(ctx); err != nil {
			return err
		}
		err = b.Navigate(ctx, url)
		if err == nil ||
			errors.Is(err, browser.ErrChallenge) ||
			errors.Is(err, context.Canceled) {
			return err
		}
		r.Log.Warn("navigation attempt failed",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
	}
	return err
}

func (r *Runner) airtableKey() (string, error) {
	return secrets.GetAirtableKey(r.Cfg.Output.Airtable.KeyringAccount)
}
