package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
)

const canonicalCSV = "account,date,title,followers,follower_delta,likes,comments,shares,favorites,views\n" +
	"A,2024-05-01,post,1000,10,5,1,0,2,100\n" +
	"B,2024-05-01,post,2000,20,8,2,0,1,200\n"

const renamedCSV = "user,date,title,followers,follower_delta,likes,comments,shares,favorites,views\n" +
	"A,2024-05-01,post,1000,10,5,1,0,2,100\n"

func TestLoadSampleStatus(t *testing.T) {
	svc := NewDataService(nil)
	status := svc.LoadSample(dataset.SampleOptions{Accounts: 2, Days: 3, Seed: 1})

	assert.True(t, status.Loaded)
	assert.False(t, status.NeedsMapping)
	assert.Equal(t, 6, status.Records)
	assert.Len(t, status.Accounts, 2)
	assert.NotEmpty(t, status.From)
	assert.NotEmpty(t, status.To)
	assert.NotEmpty(t, status.Preview)
}

func TestLoadUploadImmediate(t *testing.T) {
	svc := NewDataService(nil)
	status, err := svc.LoadUpload(strings.NewReader(canonicalCSV), "metrics.csv")
	require.NoError(t, err)

	assert.True(t, status.Loaded)
	assert.False(t, status.NeedsMapping)
	assert.Equal(t, 2, status.Records)

	records, err := svc.Records()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadUploadHeldForMapping(t *testing.T) {
	svc := NewDataService(nil)
	status, err := svc.LoadUpload(strings.NewReader(renamedCSV), "metrics.csv")
	require.NoError(t, err)

	assert.False(t, status.Loaded)
	assert.True(t, status.NeedsMapping)
	assert.Equal(t, []string{"account"}, status.Missing)

	// The pending table is not queryable as a dataset.
	_, err = svc.Records()
	assert.ErrorIs(t, err, apperrors.ErrNoDataset)
}

func TestApplyMapping(t *testing.T) {
	svc := NewDataService(nil)
	_, err := svc.LoadUpload(strings.NewReader(renamedCSV), "metrics.csv")
	require.NoError(t, err)

	status, err := svc.ApplyMapping(map[string]string{"user": "account"})
	require.NoError(t, err)
	assert.True(t, status.Loaded)
	assert.Equal(t, 1, status.Records)

	// The mapping is one-shot; a second apply has nothing pending.
	_, err = svc.ApplyMapping(map[string]string{"user": "account"})
	assert.ErrorIs(t, err, apperrors.ErrNoDataset)
}

func TestApplyMappingStillMissing(t *testing.T) {
	svc := NewDataService(nil)
	_, err := svc.LoadUpload(strings.NewReader(renamedCSV), "metrics.csv")
	require.NoError(t, err)

	_, err = svc.ApplyMapping(map[string]string{"user": "title"})
	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "account")

	// A failed mapping keeps the upload pending for another attempt.
	status, err := svc.ApplyMapping(map[string]string{"user": "account"})
	require.NoError(t, err)
	assert.True(t, status.Loaded)
}

func TestLoadUploadPropagatesLoaderErrors(t *testing.T) {
	svc := NewDataService(nil)
	_, err := svc.LoadUpload(strings.NewReader("{}"), "metrics.json")
	var formatErr *apperrors.UnsupportedFormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestStatusEmptySession(t *testing.T) {
	svc := NewDataService(nil)
	status := svc.Status()
	assert.False(t, status.Loaded)
	assert.False(t, status.NeedsMapping)
	assert.Zero(t, status.Records)
}

func TestStatusPreviewCapped(t *testing.T) {
	svc := NewDataService(nil)
	status := svc.LoadSample(dataset.SampleOptions{Accounts: 3, Days: 10, Seed: 1})
	assert.Equal(t, 30, status.Records)
	assert.Len(t, status.Preview, previewRows)
}
