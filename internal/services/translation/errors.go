package translation

import "fmt"

type ErrorKind string

const (
	KindNotFound    ErrorKind = "not_found"
	KindStorage     ErrorKind = "storage"
	KindTranslation ErrorKind = "translation"
	KindInternal    ErrorKind = "internal"
)

// JobError is the failure half of a job Result.
type JobError struct {
	Kind    ErrorKind
	Message string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("translation job %s error: %s", e.Kind, e.Message)
}
