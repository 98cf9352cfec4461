package scan

// Classify maps a response status to a classification. Successful hits,
// auth boundaries, validation rejections and server faults are flagged
// as interesting; anything else that completed is routine.
func Classify(statusCode int, err error) Classification {
	if err != nil {
		return ClassificationError
	}
	switch statusCode {
	case 200, 401, 403, 422:
		return ClassificationInteresting
	}
	if statusCode >= 500 && statusCode < 600 {
		return ClassificationInteresting
	}
	return ClassificationRoutine
}
