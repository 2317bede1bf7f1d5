// Package dashboard drives the RC web dashboard to trigger the Hangfire
// recurring job that moves staged records into CBO.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/util"
)

const (
	enqueuedXPath   = `//a[@href='/hangfiredashboard/hangfire/jobs/enqueued']`
	processingXPath = `//a[@href="/hangfiredashboard/hangfire/jobs/processing"]/span/span`
	stepTimeout     = 30 * time.Second
)

// browserLauncher starts a local Chrome and owns its process and user data
// dir. *launcher.Launcher satisfies it.
type browserLauncher interface {
	Launch() (string, error)
	Kill()
	Cleanup()
}

type Client struct {
	cfg         config.Dashboard
	newLauncher func(headless bool) browserLauncher
}

func New(cfg config.Dashboard) *Client {
	return &Client{
		cfg: cfg,
		newLauncher: func(headless bool) browserLauncher {
			return launcher.New().Headless(headless)
		},
	}
}

// TriggerRecurringJob logs in, triggers the configured recurring job, waits
// for processing and returns the processing count shown by Hangfire.
func (c *Client) TriggerRecurringJob(ctx context.Context) (int, error) {
	if err := c.cfg.Validate(); err != nil {
		return 0, err
	}

	log := zap.S().Named("dashboard")

	l := c.newLauncher(c.cfg.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return 0, fmt.Errorf("launch chrome: %w", err)
	}
	// Cleanup blocks until the process exits, so kill it first.
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return 0, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: c.cfg.URL})
	if err != nil {
		return 0, fmt.Errorf("open dashboard: %w", err)
	}

	if err := c.login(page); err != nil {
		return 0, err
	}
	log.Infow("logged in to dashboard", "url", c.cfg.URL)

	frame, err := c.openRecurringJobs(page)
	if err != nil {
		return 0, err
	}

	if err := c.trigger(frame); err != nil {
		return 0, err
	}
	log.Infow("recurring job triggered", "job", c.cfg.JobName)

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(c.cfg.ProcessingWait):
	}

	count := 0
	if el, err := frame.Timeout(stepTimeout).ElementX(processingXPath); err == nil {
		if text, err := el.Text(); err == nil {
			count = ParseCount(text)
		}
	}
	log.Infow("processing jobs", "count", count)

	return count, nil
}

func (c *Client) login(page *rod.Page) error {
	p := page.Timeout(stepTimeout)
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("load login page: %w", err)
	}
	if err := input(p, `input[placeholder='Enter Email']`, c.cfg.Username); err != nil {
		return err
	}
	if err := input(p, `input[placeholder='Enter Password']`, c.cfg.Password); err != nil {
		return err
	}
	if err := clickR(p, "button", "Sign in"); err != nil {
		return err
	}
	if _, err := p.ElementR("a", "HangFire Dashboard"); err != nil {
		return fmt.Errorf("dashboard did not load after sign in: %w", err)
	}
	return nil
}

func (c *Client) openRecurringJobs(page *rod.Page) (*rod.Page, error) {
	p := page.Timeout(stepTimeout)
	if err := clickR(p, "a", "HangFire Dashboard"); err != nil {
		return nil, err
	}
	if err := clickR(p, "a", "Hangfire Jobs"); err != nil {
		return nil, err
	}

	iframe, err := p.Element("iframe")
	if err != nil {
		return nil, fmt.Errorf("hangfire frame not found: %w", err)
	}
	frame, err := iframe.Frame()
	if err != nil {
		return nil, fmt.Errorf("hangfire frame: %w", err)
	}

	f := frame.Timeout(stepTimeout)
	if err := clickR(f, "a", "Hangfire Dashboard"); err != nil {
		return nil, err
	}
	if err := clickR(f, "a", "Recurring Jobs"); err != nil {
		return nil, err
	}
	return frame, nil
}

func (c *Client) trigger(frame *rod.Page) error {
	f := frame.Timeout(stepTimeout)

	row, err := f.ElementR("tr", c.cfg.JobName)
	if err != nil {
		return fmt.Errorf("recurring job %q not found: %w", c.cfg.JobName, err)
	}
	checkbox, err := row.Element(`input[type=checkbox]`)
	if err != nil {
		return fmt.Errorf("recurring job %q has no checkbox: %w", c.cfg.JobName, err)
	}
	if err := checkbox.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}

	if err := clickR(f, "button", "Trigger now"); err != nil {
		return err
	}

	enqueued, err := f.ElementX(enqueuedXPath)
	if err != nil {
		return fmt.Errorf("enqueued link not found: %w", err)
	}
	if err := enqueued.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}

	return clickR(f, "a", "Processing")
}

func input(p *rod.Page, selector, text string) error {
	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("element %s not found: %w", selector, err)
	}
	return el.Input(text)
}

func clickR(p *rod.Page, selector, text string) error {
	el, err := p.ElementR(selector, text)
	if err != nil {
		return fmt.Errorf("%s %q not found: %w", selector, text, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// ParseCount reads the processing counter text; anything unreadable is 0.
func ParseCount(text string) int {
	n := util.AtoiOrZero(text)
	if n < 0 {
		return 0
	}
	return n
}
