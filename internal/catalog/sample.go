package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// Sampler produces synthetic catalogs for trying the tool.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler returns a Sampler seeded with the current time.
func NewSampler() *Sampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler returns a Sampler with a fixed seed.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

var sampleTopics = []string{
	"household income", "commute length", "internet usage", "sleep quality",
	"grocery spending", "exercise frequency", "job satisfaction", "news sources",
	"volunteer hours", "streaming habits",
}

var sampleStems = []string{
	"How often do you think about %s?",
	"In the past month, how satisfied were you with your %s?",
	"How would you rate the importance of %s to your daily life?",
	"To what extent has %s changed for you over the past year?",
}

var sampleOptions = []string{
	"1 = Never; 2 = Rarely; 3 = Sometimes; 4 = Often; 5 = Always",
	"1 = Very dissatisfied; 2 = Dissatisfied; 3 = Neutral; 4 = Satisfied; 5 = Very satisfied",
	"Yes; No; Prefer not to say",
	"Strongly disagree; Disagree; Neutral; Agree; Strongly agree",
}

var sampleIssues = []string{
	"Double-barreled: asks about frequency and importance at once.",
	"Response options do not match the question stem.",
	"Recall period is ambiguous for respondents with irregular schedules.",
	"Leading phrasing suggests a socially desirable answer.",
	"Scale lacks a midpoint although the stem implies one.",
	"Term is likely unfamiliar to part of the target population.",
}

// WriteSample writes a synthetic catalog CSV with the given number of rows.
func (s *Sampler) WriteSample(w io.Writer, count int) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < count; i++ {
		topic := sampleTopics[s.rnd.Intn(len(sampleTopics))]
		record := []string{
			fmt.Sprintf("Q%02d", i+1),
			fmt.Sprintf(sampleStems[s.rnd.Intn(len(sampleStems))], topic),
			sampleOptions[s.rnd.Intn(len(sampleOptions))],
			sampleIssues[s.rnd.Intn(len(sampleIssues))],
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
