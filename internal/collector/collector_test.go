package collector_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snapsort/internal/collector"
	"snapsort/internal/config"
	"snapsort/internal/logging"
	"snapsort/internal/organizer"
	"snapsort/internal/services"
	"snapsort/internal/staging"
)

const testChatID int64 = 777

type stubDownloader struct {
	failFor map[string]bool
	calls   []string
}

func (d *stubDownloader) Download(_ context.Context, fileID, dest string) error {
	d.calls = append(d.calls, fileID)
	if d.failFor[fileID] {
		return errors.New("telegram: file unavailable")
	}
	return os.WriteFile(dest, []byte("jpeg-bytes"), 0o644)
}

type harness struct {
	collector *collector.Collector
	downloads *stubDownloader
	staging   string
	output    string
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		Collector: config.Collector{
			TriggerPhrase:       "sending photos",
			AllowImageDocuments: true,
		},
	}
}

func buildHarness(t *testing.T, cfg *config.Config, output, stagingDir string) *harness {
	t.Helper()
	downloads := &stubDownloader{failFor: map[string]bool{}}
	area := staging.NewArea(stagingDir)
	org := organizer.New(output, logging.NewNop())
	return &harness{
		collector: collector.New(cfg, area, org, downloads, logging.NewNop()),
		downloads: downloads,
		staging:   stagingDir,
		output:    output,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	output := t.TempDir()
	return buildHarness(t, defaultTestConfig(), output, filepath.Join(output, "_inbox"))
}

func textEvent(msgID int64, text string) collector.Event {
	return collector.Event{ChatID: testChatID, MessageID: msgID, Text: text}
}

func photoEvent(msgID int64, fileID string) collector.Event {
	return collector.Event{
		ChatID:    testChatID,
		MessageID: msgID,
		Media:     &collector.Media{Kind: collector.KindPhoto, FileID: fileID},
	}
}

func videoEvent(msgID int64, caption string) collector.Event {
	return collector.Event{
		ChatID:    testChatID,
		MessageID: msgID,
		Text:      caption,
		Media:     &collector.Media{Kind: collector.KindVideo, MIME: "video/mp4", FileID: "vid"},
	}
}

func TestTriggerPhotosLabelFilesBatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	trigger := textEvent(1, "Sending Photos")
	trigger.Time = time.Date(2026, 5, 17, 9, 30, 0, 0, time.Local)
	out := h.collector.Handle(ctx, trigger)
	if out.Kind != collector.OutcomeBatchStarted {
		t.Fatalf("trigger outcome = %s, want %s", out.Kind, collector.OutcomeBatchStarted)
	}
	if out.BatchID == "" {
		t.Fatal("batch started without an id")
	}

	out = h.collector.Handle(ctx, photoEvent(101, "file-a"))
	if out.Kind != collector.OutcomeMediaStaged {
		t.Fatalf("photo outcome = %s, want %s", out.Kind, collector.OutcomeMediaStaged)
	}
	wantStaged := filepath.Join(h.staging, "photo_101.jpg")
	if out.StagedPath != wantStaged {
		t.Fatalf("staged path = %q, want %q", out.StagedPath, wantStaged)
	}
	if _, err := os.Stat(wantStaged); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}

	second := photoEvent(102, "file-b")
	second.Media.FileName = "sunset.jpg"
	out = h.collector.Handle(ctx, second)
	if out.Kind != collector.OutcomeMediaStaged || out.StagedCount != 2 {
		t.Fatalf("second photo outcome = %s count=%d, want staged count 2", out.Kind, out.StagedCount)
	}

	out = h.collector.Handle(ctx, textEvent(103, "Rome | Colosseum"))
	if out.Kind != collector.OutcomeBatchFinalized {
		t.Fatalf("label outcome = %s, want %s", out.Kind, collector.OutcomeBatchFinalized)
	}
	if out.Category != "Rome" || out.Subcategory != "Colosseum" {
		t.Fatalf("label parsed as %q/%q", out.Category, out.Subcategory)
	}
	if out.Moved != 2 || out.Failed != 0 || out.StagedCount != 2 {
		t.Fatalf("moved=%d failed=%d staged=%d, want 2/0/2", out.Moved, out.Failed, out.StagedCount)
	}
	wantDest := filepath.Join(h.output, "Rome - Colosseum (2026-05-17_09-30-00)")
	if out.Destination != wantDest {
		t.Fatalf("destination = %q, want %q", out.Destination, wantDest)
	}
	for _, name := range []string{"photo_101.jpg", "sunset.jpg"} {
		if _, err := os.Stat(filepath.Join(wantDest, name)); err != nil {
			t.Fatalf("expected %s in destination: %v", name, err)
		}
	}

	// The collector is idle again: another label is just chatter.
	out = h.collector.Handle(ctx, textEvent(104, "Oslo | Harbor"))
	if out.Kind != collector.OutcomeIgnored {
		t.Fatalf("post-finalize text outcome = %s, want %s", out.Kind, collector.OutcomeIgnored)
	}
}

func TestTriggerRestartAbandonsStagedFiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.collector.Handle(ctx, textEvent(1, "sending photos"))
	h.collector.Handle(ctx, photoEvent(10, "file-a"))

	restart := h.collector.Handle(ctx, textEvent(2, "sending photos"))
	if restart.Kind != collector.OutcomeBatchStarted {
		t.Fatalf("restart outcome = %s, want %s", restart.Kind, collector.OutcomeBatchStarted)
	}
	if restart.BatchID == first.BatchID {
		t.Fatal("restart should open a fresh batch id")
	}

	out := h.collector.Handle(ctx, textEvent(3, "Pune | Shaniwar Wada"))
	if out.Kind != collector.OutcomeBatchFinalized {
		t.Fatalf("finalize outcome = %s, want %s", out.Kind, collector.OutcomeBatchFinalized)
	}
	if out.Moved != 0 || out.StagedCount != 0 {
		t.Fatalf("fresh batch moved=%d staged=%d, want 0/0", out.Moved, out.StagedCount)
	}
	// The abandoned download stays in staging for manual review.
	if _, err := os.Stat(filepath.Join(h.staging, "photo_10.jpg")); err != nil {
		t.Fatalf("abandoned file should remain staged: %v", err)
	}
}

func TestDownloadFailureSkipsFileAndKeepsCollecting(t *testing.T) {
	h := newHarness(t)
	h.downloads.failFor["bad-file"] = true
	ctx := context.Background()

	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	out := h.collector.Handle(ctx, photoEvent(10, "bad-file"))
	if out.Kind != collector.OutcomeMediaSkipped {
		t.Fatalf("failed download outcome = %s, want %s", out.Kind, collector.OutcomeMediaSkipped)
	}
	if out.Err == nil {
		t.Fatal("skip outcome should carry the download error")
	}

	out = h.collector.Handle(ctx, photoEvent(11, "good-file"))
	if out.Kind != collector.OutcomeMediaStaged || out.StagedCount != 1 {
		t.Fatalf("good download outcome = %s count=%d, want staged count 1", out.Kind, out.StagedCount)
	}

	out = h.collector.Handle(ctx, textEvent(12, "Agra | Taj Mahal"))
	if out.Moved != 1 || out.Failed != 0 {
		t.Fatalf("moved=%d failed=%d, want 1/0", out.Moved, out.Failed)
	}
}

func TestMediaAndTextWhileIdleAreIgnored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if out := h.collector.Handle(ctx, photoEvent(1, "file-a")); out.Kind != collector.OutcomeIgnored {
		t.Fatalf("idle photo outcome = %s, want %s", out.Kind, collector.OutcomeIgnored)
	}
	if len(h.downloads.calls) != 0 {
		t.Fatalf("idle photo should not download, got %d calls", len(h.downloads.calls))
	}
	if out := h.collector.Handle(ctx, textEvent(2, "hello there")); out.Kind != collector.OutcomeIgnored {
		t.Fatalf("idle text outcome = %s, want %s", out.Kind, collector.OutcomeIgnored)
	}
	// Plain chatter must not have opened a batch.
	if out := h.collector.Handle(ctx, photoEvent(3, "file-b")); out.Kind != collector.OutcomeIgnored {
		t.Fatalf("photo after idle text outcome = %s, want %s", out.Kind, collector.OutcomeIgnored)
	}
}

func TestTriggerMatchingNormalizesWhitespaceAndCase(t *testing.T) {
	h := newHarness(t)
	out := h.collector.Handle(context.Background(), textEvent(1, "  SENDING\t\tPHOTOS  "))
	if out.Kind != collector.OutcomeBatchStarted {
		t.Fatalf("normalized trigger outcome = %s, want %s", out.Kind, collector.OutcomeBatchStarted)
	}
}

func TestTriggerCaptionStartsBatchAndIgnoresAttachment(t *testing.T) {
	h := newHarness(t)
	out := h.collector.Handle(context.Background(), videoEvent(1, "sending photos"))
	if out.Kind != collector.OutcomeBatchStarted {
		t.Fatalf("trigger caption outcome = %s, want %s", out.Kind, collector.OutcomeBatchStarted)
	}
	if len(h.downloads.calls) != 0 {
		t.Fatal("trigger caption should never download the attachment")
	}
}

func TestCaptionedPhotoStagesWithoutFinalizing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	captioned := photoEvent(10, "file-a")
	captioned.Text = "look at this one"
	out := h.collector.Handle(ctx, captioned)
	if out.Kind != collector.OutcomeMediaStaged {
		t.Fatalf("captioned photo outcome = %s, want %s", out.Kind, collector.OutcomeMediaStaged)
	}

	out = h.collector.Handle(ctx, textEvent(11, "Jaipur | Hawa Mahal"))
	if out.Kind != collector.OutcomeBatchFinalized || out.Moved != 1 {
		t.Fatalf("finalize outcome = %s moved=%d, want finalized with 1 move", out.Kind, out.Moved)
	}
}

func TestCaptionedVideoFinalizesBatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	h.collector.Handle(ctx, photoEvent(10, "file-a"))

	out := h.collector.Handle(ctx, videoEvent(11, "Delhi | Red Fort"))
	if out.Kind != collector.OutcomeBatchFinalized {
		t.Fatalf("captioned video outcome = %s, want %s", out.Kind, collector.OutcomeBatchFinalized)
	}
	if out.Category != "Delhi" || out.Subcategory != "Red Fort" || out.Moved != 1 {
		t.Fatalf("finalized as %q/%q moved=%d", out.Category, out.Subcategory, out.Moved)
	}
}

func TestUncaptionedVideoIsSkippedWhileCollecting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	out := h.collector.Handle(ctx, videoEvent(10, ""))
	if out.Kind != collector.OutcomeMediaSkipped {
		t.Fatalf("video outcome = %s, want %s", out.Kind, collector.OutcomeMediaSkipped)
	}
	if out.Err != nil {
		t.Fatalf("non-qualifying skip should not carry an error, got %v", out.Err)
	}
	if len(h.downloads.calls) != 0 {
		t.Fatal("non-qualifying media should never download")
	}
}

func TestImageDocumentRespectsToggle(t *testing.T) {
	docEvent := func(msgID int64, mime string) collector.Event {
		return collector.Event{
			ChatID:    testChatID,
			MessageID: msgID,
			Media: &collector.Media{
				Kind:     collector.KindDocument,
				MIME:     mime,
				FileName: "scan.png",
				FileID:   "doc-file",
			},
		}
	}

	h := newHarness(t)
	ctx := context.Background()
	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	if out := h.collector.Handle(ctx, docEvent(10, "image/png")); out.Kind != collector.OutcomeMediaStaged {
		t.Fatalf("image document outcome = %s, want %s", out.Kind, collector.OutcomeMediaStaged)
	}
	if out := h.collector.Handle(ctx, docEvent(11, "application/pdf")); out.Kind != collector.OutcomeMediaSkipped {
		t.Fatalf("pdf document outcome = %s, want %s", out.Kind, collector.OutcomeMediaSkipped)
	}

	strictCfg := defaultTestConfig()
	strictCfg.Collector.AllowImageDocuments = false
	output := t.TempDir()
	strict := buildHarness(t, strictCfg, output, filepath.Join(output, "_inbox"))
	strict.collector.Handle(ctx, textEvent(1, "sending photos"))
	if out := strict.collector.Handle(ctx, docEvent(10, "image/png")); out.Kind != collector.OutcomeMediaSkipped {
		t.Fatalf("image document with toggle off outcome = %s, want %s", out.Kind, collector.OutcomeMediaSkipped)
	}
}

func TestFinalizeWithNothingStagedStillCreatesFolder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	out := h.collector.Handle(ctx, textEvent(2, "Lisbon | Belem Tower"))
	if out.Kind != collector.OutcomeBatchFinalized || out.Moved != 0 {
		t.Fatalf("empty finalize outcome = %s moved=%d, want finalized with 0 moves", out.Kind, out.Moved)
	}
	info, err := os.Stat(out.Destination)
	if err != nil || !info.IsDir() {
		t.Fatalf("destination %s should exist, err=%v", out.Destination, err)
	}
}

func TestDestinationFailureReportsBatchFailed(t *testing.T) {
	parent := t.TempDir()
	output := filepath.Join(parent, "output")
	if err := os.WriteFile(output, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker file: %v", err)
	}
	h := buildHarness(t, defaultTestConfig(), output, t.TempDir())
	ctx := context.Background()

	h.collector.Handle(ctx, textEvent(1, "sending photos"))
	h.collector.Handle(ctx, photoEvent(10, "file-a"))

	out := h.collector.Handle(ctx, textEvent(11, "Cairo | Pyramids"))
	if out.Kind != collector.OutcomeBatchFailed {
		t.Fatalf("outcome = %s, want %s", out.Kind, collector.OutcomeBatchFailed)
	}
	if !errors.Is(out.Err, services.ErrConfiguration) {
		t.Fatalf("failure should carry the configuration marker, got %v", out.Err)
	}
	if out.StagedCount != 1 {
		t.Fatalf("staged count = %d, want 1", out.StagedCount)
	}
	if _, err := os.Stat(filepath.Join(h.staging, "photo_10.jpg")); err != nil {
		t.Fatalf("staged file should survive the failure: %v", err)
	}

	// The failure resets the state machine: follow-up text is ignored.
	if out := h.collector.Handle(ctx, textEvent(12, "Cairo | Pyramids")); out.Kind != collector.OutcomeIgnored {
		t.Fatalf("post-failure text outcome = %s, want %s", out.Kind, collector.OutcomeIgnored)
	}
}
