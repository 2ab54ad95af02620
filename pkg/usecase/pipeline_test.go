package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/EngrShabir135/koboimg/pkg/domain/model"
	"github.com/EngrShabir135/koboimg/pkg/domain/types"
	"github.com/EngrShabir135/koboimg/pkg/usecase"
)

// MockFetcher is a mock implementation of interfaces.ImageFetcher
type MockFetcher struct {
	fetchFunc  func(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error)
	fetchCalls []string
}

func (m *MockFetcher) FetchImage(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error) {
	m.fetchCalls = append(m.fetchCalls, url)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, creds)
	}
	return nil, errors.New("mock not configured")
}

var testCreds = model.Credentials{Username: "enumerator", Password: "s3cret"}

func csvInput(urls ...string) []byte {
	return []byte("image_url\n" + strings.Join(urls, "\n") + "\n")
}

func TestPipeline_Execute_MixedOutcomes(t *testing.T) {
	ctx := context.Background()

	urlA := "https://kc.example.org/media/a.jpg"
	urlB := "https://kc.example.org/media/b.png"
	urlC := "https://unreachable.example.org/media/c.jpg"

	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error) {
			switch url {
			case urlA:
				return &model.FetchedImage{Data: jpegData, ContentType: "image/jpeg"}, nil
			case urlB:
				return &model.FetchedImage{Data: pngData, ContentType: "image/png"}, nil
			default:
				return nil, goerr.Wrap(types.ErrNetwork, "request timed out")
			}
		},
	}

	uc := usecase.NewPipeline(mock)
	result, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        csvInput(urlA, urlB, urlC),
		Credentials: testCreds,
	})
	gt.NoError(t, err)

	// Every URL reaches exactly one terminal outcome
	gt.Number(t, result.Summary.Total).Equal(3)
	gt.Number(t, result.Summary.Succeeded).Equal(2)
	gt.Number(t, result.Summary.Failed).Equal(1)
	gt.Number(t, result.Summary.Succeeded+result.Summary.Failed).Equal(result.Summary.Total)

	// Archive contains the successes under their row-based names
	zr, err := zip.NewReader(bytes.NewReader(result.Archive), int64(len(result.Archive)))
	gt.NoError(t, err)
	gt.Number(t, len(zr.File)).Equal(2)
	gt.Value(t, zr.File[0].Name).Equal("bill 1.jpg")
	gt.Value(t, zr.File[1].Name).Equal("bill 2.png")

	// Failure report carries the unreachable URL with a network reason
	gt.Number(t, len(result.Failures)).Equal(1)
	gt.Value(t, result.Failures[0].URL).Equal(urlC)
	gt.String(t, result.Failures[0].Reason).Contains("network")

	rows, err := csv.NewReader(bytes.NewReader(result.FailureCSV)).ReadAll()
	gt.NoError(t, err)
	gt.Number(t, len(rows)).Equal(2)
	gt.Value(t, rows[1][0]).Equal(urlC)

	// Sequential fetching in input row order
	gt.Array(t, mock.fetchCalls).Equal([]string{urlA, urlB, urlC})
}

func TestPipeline_Execute_IndicesFollowRowPosition(t *testing.T) {
	ctx := context.Background()

	urls := []string{
		"https://kc.example.org/media/1.jpg",
		"https://kc.example.org/media/2.jpg",
		"https://kc.example.org/media/3.jpg",
	}

	// The middle row fails, so "bill 2" must not exist and the third
	// image keeps its row-based index.
	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error) {
			if url == urls[1] {
				return nil, goerr.Wrap(types.ErrAuthentication, "HTTP 401")
			}
			return &model.FetchedImage{Data: jpegData, ContentType: "image/jpeg"}, nil
		},
	}

	uc := usecase.NewPipeline(mock)
	result, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        csvInput(urls...),
		Credentials: testCreds,
	})
	gt.NoError(t, err)

	gt.Number(t, len(result.Records)).Equal(2)
	gt.Value(t, result.Records[0].Filename()).Equal("bill 1.jpg")
	gt.Value(t, result.Records[1].Filename()).Equal("bill 3.jpg")
	gt.String(t, result.Failures[0].Reason).Contains("authentication")
}

func TestPipeline_Execute_PrefixAndStartIndex(t *testing.T) {
	ctx := context.Background()

	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error) {
			return &model.FetchedImage{Data: pngData, ContentType: "image/png"}, nil
		},
	}

	uc := usecase.NewPipeline(mock)
	result, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        csvInput("https://kc.example.org/media/a.png"),
		Credentials: testCreds,
		Prefix:      "receipt",
		StartIndex:  10,
	})
	gt.NoError(t, err)
	gt.Value(t, result.Records[0].Filename()).Equal("receipt 10.png")
}

func TestPipeline_Execute_Deduplicates(t *testing.T) {
	ctx := context.Background()

	url := "https://kc.example.org/media/a.jpg"
	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, u string, creds model.Credentials) (*model.FetchedImage, error) {
			return &model.FetchedImage{Data: jpegData, ContentType: "image/jpeg"}, nil
		},
	}

	uc := usecase.NewPipeline(mock)
	result, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        csvInput(url, url),
		Credentials: testCreds,
	})
	gt.NoError(t, err)

	gt.Number(t, len(mock.fetchCalls)).Equal(1)
	gt.Number(t, result.Summary.Total).Equal(1)
	gt.Number(t, result.Summary.Duplicates).Equal(1)
}

func TestPipeline_Execute_EmptyInput(t *testing.T) {
	ctx := context.Background()

	mock := &MockFetcher{}
	uc := usecase.NewPipeline(mock)

	result, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        []byte("image_url\n"),
		Credentials: testCreds,
	})
	gt.NoError(t, err)

	gt.Number(t, result.Summary.Total).Equal(0)
	gt.Number(t, len(mock.fetchCalls)).Equal(0)

	// Empty archive is still a valid ZIP
	_, err = zip.NewReader(bytes.NewReader(result.Archive), int64(len(result.Archive)))
	gt.NoError(t, err)
}

func TestPipeline_Execute_ParseFailureAbortsRun(t *testing.T) {
	ctx := context.Background()

	mock := &MockFetcher{}
	uc := usecase.NewPipeline(mock)

	_, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.pdf",
		Data:        []byte("whatever"),
		Credentials: testCreds,
	})
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrUnsupportedFormat)).Equal(true)
	gt.Number(t, len(mock.fetchCalls)).Equal(0)
}

func TestPipeline_Execute_MissingColumnAbortsRun(t *testing.T) {
	ctx := context.Background()

	uc := usecase.NewPipeline(&MockFetcher{})
	_, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        []byte("name,amount\nfoo,1\n"),
		Credentials: testCreds,
	})
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrMissingColumn)).Equal(true)
}

func TestPipeline_Execute_Abandoned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := usecase.NewPipeline(&MockFetcher{})
	_, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        csvInput("https://kc.example.org/media/a.jpg"),
		Credentials: testCreds,
	})
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, context.Canceled)).Equal(true)
}

func TestPipeline_Execute_Progress(t *testing.T) {
	ctx := context.Background()

	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error) {
			return &model.FetchedImage{Data: jpegData, ContentType: "image/jpeg"}, nil
		},
	}

	var progress [][2]int
	uc := usecase.NewPipeline(mock)
	_, err := uc.Execute(ctx, &model.RunInput{
		Filename:    "links.csv",
		Data:        csvInput("https://kc.example.org/a.jpg", "https://kc.example.org/b.jpg"),
		Credentials: testCreds,
		OnProgress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})
	gt.NoError(t, err)
	gt.Array(t, progress).Equal([][2]int{{1, 2}, {2, 2}})
}
