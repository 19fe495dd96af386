package course_api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iamvkosarev/learning-assistant/config"
	course_api "github.com/iamvkosarev/learning-assistant/internal/client/course-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) *course_api.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return course_api.NewClient(config.Courses{
		BaseURL:    server.URL,
		SearchPath: "/api/search",
		ListPath:   "/api/courses",
	})
}

func TestSearch(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "Python courses", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[{"_id":"c1","title":"Python 101","enrolledStudents":7}]}`))
	})

	courses, err := client.Search(context.Background(), "Python courses")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	assert.Equal(t, "Python 101", courses[0].Title)
	assert.Equal(t, 7, courses[0].EnrolledStudents)
}

func TestSearchErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.Search(context.Background(), "go")
		assert.ErrorIs(t, err, course_api.ErrRequestFailed)
	})

	t.Run("unsuccessful", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false}`))
		})
		_, err := client.Search(context.Background(), "go")
		assert.ErrorIs(t, err, course_api.ErrUnsuccessful)
	})

	t.Run("malformed", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})
		_, err := client.Search(context.Background(), "go")
		assert.ErrorIs(t, err, course_api.ErrMalformedResult)
	})
}

func TestListCourses(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":[{"title":"React"},{"title":"Go"}]}`))
	})

	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Go", courses[1].Title)
}
