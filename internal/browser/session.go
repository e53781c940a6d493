package browser

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightSession owns one Chromium page for a whole run.
type PlaywrightSession struct {
	manager *PlaywrightManager
	page    *PlaywrightPage
}

// OpenPlaywrightSession launches the browser and opens the run's single page.
// cookiesPath may be empty or point to a missing file.
func OpenPlaywrightSession(ctx context.Context, opts Options, cookiesPath string) (*PlaywrightSession, error) {
	manager, err := NewPlaywright(ctx, opts)
	if err != nil {
		return nil, err
	}

	var cookies []playwright.OptionalCookie
	if cookiesPath != "" {
		cookies, err = LoadCookies(cookiesPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Printf("ℹ️ No cookie file at %s. Continuing without cookies.", cookiesPath)
			} else {
				log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
			}
			cookies = nil
		}
	}

	page, err := manager.NewPage(cookies)
	if err != nil {
		manager.Close()
		return nil, err
	}
	log.Println("✅ Browser initialized successfully!")
	return &PlaywrightSession{manager: manager, page: page}, nil
}

func (s *PlaywrightSession) Page() scraper.Page {
	return s.page
}

func (s *PlaywrightSession) Close() error {
	if err := s.page.Close(); err != nil {
		log.Printf("⚠️ Failed to close page: %v", err)
	}
	return s.manager.Close()
}

// StaticSession wraps a StaticPage; closing it is a no-op.
type StaticSession struct {
	page *StaticPage
}

func NewStaticSession(page *StaticPage) *StaticSession {
	return &StaticSession{page: page}
}

func (s *StaticSession) Page() scraper.Page {
	return s.page
}

func (s *StaticSession) Close() error {
	return nil
}
