package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/browser"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/config"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper/indeed"
	"github.com/Naawshin/Multilabel-Skill-Classifier/utils"
)

// probe loads one page and prints what every selector yields, to spot
// selectors that stopped matching after a site change.
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	target := flag.String("url", "", "page to probe (a posting, or a search results page with -results)")
	results := flag.Bool("results", false, "probe result-list selectors instead of detail selectors")
	shot := flag.Bool("screenshot", false, "save a full-page screenshot")
	flag.Parse()

	if *target == "" {
		log.Fatal("❌ -url is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	ctx := context.Background()
	fmt.Println("🌐 Testing selectors...")

	var page scraper.Page
	if cfg.Navigator == config.NavigatorHTTP {
		page = browser.NewStaticPage(&http.Client{}, cfg.UserAgent)
	} else {
		sess, err := browser.OpenPlaywrightSession(ctx, browser.Options{Headless: cfg.Headless, UserAgent: cfg.UserAgent}, cfg.CookiesPath)
		if err != nil {
			log.Fatalf("Failed to start browser: %v", err)
		}
		defer sess.Close()
		page = sess.Page()
	}

	site := indeed.NewSite(cfg.BaseURL)
	fmt.Printf("🔍 Navigating to %s\n", *target)
	if err := page.Navigate(ctx, *target); err != nil {
		log.Fatalf("Failed to navigate: %v", err)
	}

	ready := site.DetailReady
	if *results {
		ready = site.ResultsReady
	}
	if err := page.WaitFor(ctx, ready, cfg.ReadyTimeout); err != nil {
		fmt.Printf("⚠️ Page never became ready: %v\n", err)
	} else {
		fmt.Println("✅ Page ready")
	}

	if *results {
		hrefs, err := page.Attrs(site.ResultItem, site.ResultLink, "href")
		fmt.Printf("\n%s -> %d links (err: %v)\n", site.ResultItem, len(hrefs), err)
		for i, h := range hrefs {
			if i == 5 {
				fmt.Printf("   ... %d more\n", len(hrefs)-5)
				break
			}
			fmt.Printf("   %s\n", h)
		}
		next, _ := page.Texts(site.NextPage)
		fmt.Printf("%s -> %d matches\n", site.NextPage, len(next))
	} else {
		chains := []struct {
			field string
			chain scraper.SelectorChain
		}{
			{"title", site.Title},
			{"company", site.Company},
			{"location", site.Location},
			{"job_type", site.JobType},
			{"description", site.Description},
		}
		for _, c := range chains {
			fmt.Printf("\n[%s]\n", c.field)
			for _, sel := range c.chain {
				text, err := page.FirstText(sel)
				switch {
				case err != nil:
					fmt.Printf("   ❌ %s: %v\n", sel, err)
				case strings.TrimSpace(text) == "":
					fmt.Printf("   ·  %s: no match\n", sel)
				default:
					fmt.Printf("   ✅ %s: %q\n", sel, preview(text))
				}
			}
		}
		salary, ok := scraper.FindContaining(page, site.AttributeSnippet, site.SalaryMarkers)
		fmt.Printf("\n[salary] %s -> %q (found: %v)\n", site.AttributeSnippet, salary, ok)
	}

	if *shot {
		path, err := utils.NewScreenShotDebugger(cfg.ScreenshotsDir).CaptureAndLog(page, "probe", "selector probe")
		if err != nil {
			log.Printf("Failed to take screenshot: %v", err)
		} else {
			fmt.Printf("📸 Screenshot saved: %s\n", path)
		}
	}
	fmt.Println("\n✨ Probe complete!")
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
