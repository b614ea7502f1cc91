package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"promptstudio-backend/internal/models"
	"promptstudio-backend/internal/repository"
	"promptstudio-backend/internal/services"
)

type Pool struct {
	redis        *redis.Client
	publisher    *services.UpdatePublisher
	debates      *services.DebateService
	summarizer   *services.SummarizerService
	brochures    *services.BrochureService
	posters      *services.PosterService
	jobRepo      *repository.JobRepo
	debateRepo   *repository.DebateRepo
	summaryRepo  *repository.SummaryRepo
	brochureRepo *repository.BrochureRepo
	posterRepo   *repository.PosterRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	publisher *services.UpdatePublisher,
	debates *services.DebateService,
	summarizer *services.SummarizerService,
	brochures *services.BrochureService,
	posters *services.PosterService,
	jobRepo *repository.JobRepo,
	debateRepo *repository.DebateRepo,
	summaryRepo *repository.SummaryRepo,
	brochureRepo *repository.BrochureRepo,
	posterRepo *repository.PosterRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		publisher:    publisher,
		debates:      debates,
		summarizer:   summarizer,
		brochures:    brochures,
		posters:      posters,
		jobRepo:      jobRepo,
		debateRepo:   debateRepo,
		summaryRepo:  summaryRepo,
		brochureRepo: brochureRepo,
		posterRepo:   posterRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		"queue:debate-run",
		"queue:summary-generation",
		"queue:brochure-generation",
		"queue:poster-generation",
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		// Parse job
		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		// Update status
		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
			Type: "status_update",
			Payload: models.StatusUpdate{
				JobID:    job.ID,
				Step:     1,
				StepName: "Starting generation",
			},
		})

		// Execute handler
		var processErr error
		switch job.Type {
		case "debate-run":
			processErr = p.processDebate(ctx, &job)
		case "summary-generation":
			processErr = p.processSummary(ctx, &job)
		case "brochure-generation":
			processErr = p.processBrochure(ctx, &job)
		case "poster-generation":
			processErr = p.processPoster(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job)
		}

		// Release lock
		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) processDebate(ctx context.Context, job *models.Job) error {
	debate, err := p.debateRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get debate: %w", err)
	}

	p.debateRepo.UpdateStatus(ctx, debate.ID, "processing")

	onRound := func(round int) {
		p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
			Type: "status_update",
			Payload: models.StatusUpdate{
				JobID:                     job.ID,
				Step:                      round + 1,
				StepName:                  fmt.Sprintf("Round %d of %d complete", round, debate.Rounds),
				EstimatedSecondsRemaining: (debate.Rounds - round) * 15,
			},
		})
	}

	turns, err := p.debates.Run(ctx, debate.Topic, debate.Rounds, debate.Temperature, onRound)
	if err != nil {
		p.debateRepo.UpdateStatus(ctx, debate.ID, "failed")
		return err
	}

	entries := make([]models.TranscriptEntry, len(turns))
	for i, turn := range turns {
		entries[i] = models.TranscriptEntry{
			Round:   turn.Round,
			Speaker: turn.Speaker,
			Content: turn.Content,
		}
	}

	transcript := services.RenderDebateTranscript(debate.Topic, turns)
	if err := p.debateRepo.Complete(ctx, debate.ID, transcript, entries); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	return nil
}

func (p *Pool) processSummary(ctx context.Context, job *models.Job) error {
	summary, err := p.summaryRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}

	p.summaryRepo.UpdateStatus(ctx, summary.ID, "processing")

	p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID: job.ID, Step: 2, StepName: "Scraping website",
			EstimatedSecondsRemaining: 30,
		},
	})

	result, err := p.summarizer.Summarize(ctx, summary.SourceURL, summary.Backend, summary.ExplainLikeChild)
	if err != nil {
		p.summaryRepo.UpdateStatus(ctx, summary.ID, "failed")
		return err
	}

	return p.summaryRepo.Complete(ctx, summary.ID, result.PageTitle, result.ReportMD, result.Model, result.ProcessingSecs)
}

func (p *Pool) processBrochure(ctx context.Context, job *models.Job) error {
	brochure, err := p.brochureRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get brochure: %w", err)
	}

	p.brochureRepo.UpdateStatus(ctx, brochure.ID, "processing")

	p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID: job.ID, Step: 2, StepName: "Gathering website context",
			EstimatedSecondsRemaining: 45,
		},
	})

	chunksSent := 0
	onChunk := func(chunk string) {
		chunksSent++
		p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
			Type: "partial_content",
			Payload: models.PartialContent{
				JobID:           job.ID,
				Chunk:           chunk,
				TotalChunksSent: chunksSent,
			},
		})
	}

	content, err := p.brochures.Generate(ctx, brochure.CompanyName, brochure.WebsiteURL, brochure.ExtraRequirements, onChunk)
	if err != nil {
		p.brochureRepo.UpdateStatus(ctx, brochure.ID, "failed")
		return err
	}

	return p.brochureRepo.Complete(ctx, brochure.ID, content)
}

func (p *Pool) processPoster(ctx context.Context, job *models.Job) error {
	poster, err := p.posterRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get poster: %w", err)
	}

	p.posterRepo.UpdateStatus(ctx, poster.ID, "processing")

	p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID: job.ID, Step: 2, StepName: "Rendering poster",
			EstimatedSecondsRemaining: 60,
		},
	})

	result, err := p.posters.Generate(ctx, poster.ID, poster.City, poster.VisualStyle, poster.Palette)
	if err != nil {
		p.posterRepo.UpdateStatus(ctx, poster.ID, "failed")
		return err
	}

	return p.posterRepo.Complete(ctx, poster.ID, result.Prompt, result.ImagePath, result.CaptionMD)
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "completed")

	p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:      job.ID,
			ResultID:   job.ReferenceID,
			ResultType: getResultType(job.Type),
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	// An offline local server never recovers within the retry window, so
	// fail immediately.
	var ollamaErr *services.OllamaError
	permanent := errors.As(err, &ollamaErr) && ollamaErr.Code == "OLLAMA_OFFLINE"

	if !permanent && job.RetryCount < job.MaxRetries {
		log.Printf("Job %s failed (attempt %d): %s — retrying", job.ID, job.RetryCount, errMsg)
		p.jobRepo.UpdateStatus(ctx, job.ID, "pending")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		// Re-queue after backoff
		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), jobQueueName(job.Type), string(jobBytes))
		})
		return
	}

	log.Printf("Job %s failed permanently: %s", job.ID, errMsg)
	p.jobRepo.UpdateStatus(ctx, job.ID, "failed")
	p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

	errorCode := "JOB_FAILED"
	if ollamaErr != nil {
		errorCode = ollamaErr.Code
	}

	p.publisher.PublishUpdate(ctx, job.SessionID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    errorCode,
			ErrorMessage: errMsg,
		},
	})
}

func jobQueueName(jobType string) string {
	switch jobType {
	case "debate-run":
		return "queue:debate-run"
	case "summary-generation":
		return "queue:summary-generation"
	case "brochure-generation":
		return "queue:brochure-generation"
	case "poster-generation":
		return "queue:poster-generation"
	default:
		return "queue:" + jobType
	}
}

func getResultType(jobType string) string {
	switch jobType {
	case "debate-run":
		return "debate"
	case "summary-generation":
		return "summary"
	case "brochure-generation":
		return "brochure"
	case "poster-generation":
		return "poster"
	default:
		return "artifact"
	}
}
