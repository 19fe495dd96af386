package model

// Course is the course document as returned by the course API.
type Course struct {
	ID               string  `json:"_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Level            string  `json:"level"`
	Instructor       string  `json:"instructor"`
	Rating           float64 `json:"rating"`
	EnrolledStudents int     `json:"enrolledStudents"`
}

type SearchResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Level         string  `json:"level"`
	Instructor    string  `json:"instructor"`
	Rating        float64 `json:"rating"`
	EnrolledCount int     `json:"enrolledStudents"`
}

func NewSearchResult(course Course) SearchResult {
	return SearchResult{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Category:      course.Category,
		Level:         course.Level,
		Instructor:    course.Instructor,
		Rating:        course.Rating,
		EnrolledCount: course.EnrolledStudents,
	}
}

func NewSearchResults(courses []Course) []SearchResult {
	results := make([]SearchResult, 0, len(courses))
	for _, course := range courses {
		results = append(results, NewSearchResult(course))
	}
	return results
}
