package utils

import "github.com/google/uuid"

// BuildJobs turns the URL list into job specs in list order. name derives
// the filename stem for a URL.
func BuildJobs(urls []string, name func(string) string, opts JobOptions) []JobSpec {
	jobs := make([]JobSpec, 0, len(urls))
	for _, url := range urls {
		jobs = append(jobs, NewJobSpec(url, name(url), opts))
	}
	return jobs
}

func NewJobSpec(url, filename string, opts JobOptions) JobSpec {
	return JobSpec{
		ID:        uuid.NewString(),
		URL:       url,
		Filename:  filename,
		Quiet:     opts.Quiet,
		Retries:   opts.Retries,
		RateLimit: opts.RateLimit,
		Proxy:     opts.Proxy,
	}
}
