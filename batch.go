package imagehues

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessor runs extraction over URLs read from Inputer and saves results
// to Outputer. It's suggested to limit max amount of parallel processing
// goroutines equal to amount of cores.
type BatchProcessor struct {
	input      Inputer
	output     Outputer
	extractor  *Extractor
	sampleSize int
	colorCount int
	log        zerolog.Logger
	wg         sync.WaitGroup
}

// NewBatchProcessor returns new instance of BatchProcessor extracting
// colorCount colors with sampleSize stride from every image.
func NewBatchProcessor(l zerolog.Logger, in Inputer, out Outputer, ex *Extractor, sampleSize, colorCount int) *BatchProcessor {
	return &BatchProcessor{
		log:        l.With().Str("component", "batch").Logger(),
		input:      in,
		output:     out,
		extractor:  ex,
		sampleSize: sampleSize,
		colorCount: colorCount,
	}
}

// Start launches n parallel processing goroutines and waits completion.
func (bp *BatchProcessor) Start(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}

	for i := 0; i < n; i++ {
		bp.wg.Add(1)
		go bp.runner(ctx, i+1)
	}
	bp.log.Debug().Int("amount", n).Msg("runners are started")
	bp.wg.Wait()
}

func (bp *BatchProcessor) runner(ctx context.Context, num int) {
	defer bp.wg.Done()

	var (
		cnt    int // amount of images passed through the runner.
		failed int // amount of images failed to process.
	)
	started := time.Now()
	started100 := started
	log := bp.log.With().Int("runner", num).Logger()

	logstat := func(msg string) {
		log.Info().Int("count", cnt).
			Int("failed", failed).
			Float64("total-img-sec", float64(cnt)/(time.Since(started).Seconds()+1)).
			Float64("100-img-sec", 100/(time.Since(started100).Seconds()+1)).
			Msg(msg)
	}

	for {
		select {
		case <-ctx.Done():
			logstat("interrupted")
			return
		case url, ok := <-bp.input.Next():
			if !ok {
				// input channel is closed due to reaching Inputer EOF. Stop the runner.
				logstat("reached EOF")
				return
			}

			t := time.Now()
			res, err := bp.extractor.Extract(ctx, url, bp.sampleSize, bp.colorCount)
			if err != nil {
				failed++
				log.Error().Str("url", url).Str("errmsg", errMsg(err)).Msg("extraction failed")
				break
			}
			log.Debug().Str("url", url).Str("dur", time.Since(t).String()).Strs("colors", Hex(res.MainColors)).Msg("image processed")

			cnt++
			if cnt%100 == 0 {
				logstat("+100 processed")
				started100 = time.Now()
			}
			if err := bp.output.Save(res); err != nil {
				log.Error().Str("url", url).Str("errmsg", err.Error()).Msg("result saving failed")
				break
			}
		}
	}
}

// errMsg returns error message including the cause hidden behind ImageLoadError.
func errMsg(err error) string {
	var le *ImageLoadError
	if errors.As(err, &le) && le.Err != nil {
		return err.Error() + ": " + le.Err.Error()
	}
	return err.Error()
}
