package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lookupFixture = `{
  "resultCount": 1,
  "results": [{
    "wrapperType": "software",
    "trackId": 553834731,
    "bundleId": "com.midasplayer.apps.candycrushsaga",
    "trackName": "Candy Crush Saga",
    "artistId": 526656015,
    "artistName": "King",
    "price": 0,
    "currency": "USD",
    "averageUserRating": 4.7,
    "userRatingCount": 3000000,
    "genreIds": ["6014", "7003"],
    "genres": ["Games", "Casual"],
    "primaryGenreName": "Games",
    "primaryGenreId": 6014,
    "releaseDate": "2012-11-14T14:41:32Z",
    "currentVersionReleaseDate": "2024-05-01T10:00:00Z",
    "version": "1.276.0",
    "fileSizeBytes": "318572544",
    "contentAdvisoryRating": "4+",
    "languageCodesISO2A": ["EN", "FR"],
    "supportedDevices": ["iPhone15-iPhone15"],
    "artworkUrl512": "https://is1.example.com/512.png",
    "trackViewUrl": "https://apps.apple.com/us/app/candy-crush-saga/id553834731"
  }]
}`

func TestLookupSingleID(t *testing.T) {
	fake := &fakeCatalog{lookupBody: lookupFixture}
	client, _ := newTestClient(t, fake)

	apps, err := client.Lookup(context.Background(), []string{"553834731"}, LookupOptions{Country: "us"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, int64(553834731), apps[0].ID)
	require.Equal(t, int64(553834731), apps[0].AppID)
	require.Equal(t, "com.midasplayer.apps.candycrushsaga", apps[0].BundleID)
	require.Equal(t, "Candy Crush Saga", apps[0].Title)
	require.True(t, apps[0].Free)

	require.Equal(t, 1, fake.count())
	query := fake.request(0).URL.Query()
	require.Equal(t, "553834731", query.Get("id"))
	require.Equal(t, "us", query.Get("country"))
	require.Equal(t, "software", query.Get("entity"))
	require.Empty(t, query.Get("lang"))
}

func TestLookupDropsNonAppWrappers(t *testing.T) {
	fake := &fakeCatalog{lookupBody: `{"resultCount":3,"results":[
		{"wrapperType":"track","trackId":1,"trackName":"One"},
		{"wrapperType":"artist","artistId":2,"artistName":"Someone"},
		{"trackId":3,"trackName":"Three"}
	]}`}
	client, _ := newTestClient(t, fake)

	apps, err := client.Lookup(context.Background(), []string{"1", "2", "3"}, LookupOptions{})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	require.Equal(t, int64(1), apps[0].ID)
	require.Equal(t, int64(3), apps[1].ID)
}

func TestLookupMalformedBodyIsParseError(t *testing.T) {
	fake := &fakeCatalog{lookupBody: `<html>maintenance</html>`}
	client, _ := newTestClient(t, fake)

	_, err := client.Lookup(context.Background(), []string{"1"}, LookupOptions{})
	require.Equal(t, KindParse, KindOf(err))
}

func TestLookupMissingResultsIsParseError(t *testing.T) {
	bodies := map[string]string{
		"empty object":  `{}`,
		"null":          `null`,
		"null results":  `{"resultCount":0,"results":null}`,
		"error message": `{"errorMessage":"Invalid value(s) for key(s): [country]"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, &fakeCatalog{lookupBody: body})

			apps, err := client.Lookup(context.Background(), []string{"553834731"}, LookupOptions{})
			require.Error(t, err)
			assert.Nil(t, apps)
			assert.Equal(t, KindParse, KindOf(err))
		})
	}
}

func TestLookupMissingResultsKeepsUpstreamMessage(t *testing.T) {
	client, _ := newTestClient(t, &fakeCatalog{lookupBody: `{"errorMessage":"Invalid value(s) for key(s): [country]"}`})

	_, err := client.Lookup(context.Background(), []string{"1"}, LookupOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "results missing")
	assert.Contains(t, err.Error(), "Invalid value(s)")
}

func TestLookupEmptyResultsIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, &fakeCatalog{lookupBody: `{"resultCount":0,"results":[]}`})

	apps, err := client.Lookup(context.Background(), []string{"1"}, LookupOptions{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestLookupURL(t *testing.T) {
	client := New(Config{LookupURL: "https://lookup.test/lookup"})

	got, err := client.LookupURL([]string{"a.b", " c.d "}, LookupOptions{IDField: IDFieldBundleID, Country: "gb", Language: "en_gb"})
	require.NoError(t, err)
	require.Equal(t, "https://lookup.test/lookup?bundleId=a.b,c.d&country=gb&entity=software&lang=en_gb", got)

	got, err = client.LookupURL([]string{"1"}, LookupOptions{})
	require.NoError(t, err)
	require.Equal(t, "https://lookup.test/lookup?id=1&country=us&entity=software", got)
}

func TestLookupURLRejectsBadArguments(t *testing.T) {
	client := New(Config{})

	_, err := client.LookupURL(nil, LookupOptions{})
	require.Equal(t, KindArgument, KindOf(err))

	_, err = client.LookupURL([]string{"  "}, LookupOptions{})
	require.Equal(t, KindArgument, KindOf(err))

	_, err = client.LookupURL([]string{"1"}, LookupOptions{IDField: "isbn"})
	require.Equal(t, KindArgument, KindOf(err))
}

func TestLookupArgumentErrorMakesNoRequest(t *testing.T) {
	fake := &fakeCatalog{lookupBody: lookupFixture}
	client, _ := newTestClient(t, fake)

	_, err := client.Lookup(context.Background(), []string{}, LookupOptions{})
	require.Error(t, err)
	require.Equal(t, 0, fake.count())
}
