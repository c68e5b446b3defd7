package core

import "time"

// ReleasedLayout is the display format for App.Released.
const ReleasedLayout = "Jan 02, 2006"

// CleanApp flattens a raw lookup entry into an App.
func CleanApp(raw RawApp) App {
	released := parseCatalogTime(raw.ReleaseDate)
	updated := parseCatalogTime(raw.CurrentVersionReleaseDate)
	if raw.CurrentVersionReleaseDate == "" {
		updated = released
	}

	app := App{
		ID:                    raw.TrackID,
		AppID:                 raw.TrackID,
		BundleID:              raw.BundleID,
		Title:                 raw.TrackName,
		URL:                   raw.TrackViewURL,
		Description:           raw.Description,
		Icon:                  firstNonEmpty(raw.ArtworkURL512, raw.ArtworkURL100, raw.ArtworkURL60),
		Genres:                raw.Genres,
		GenreIDs:              raw.GenreIDs,
		PrimaryGenre:          raw.PrimaryGenreName,
		PrimaryGenreID:        raw.PrimaryGenreID,
		ContentRating:         raw.ContentAdvisoryRating,
		Languages:             raw.LanguageCodesISO2A,
		Size:                  raw.FileSizeBytes,
		RequiredOSVersion:     raw.MinimumOSVersion,
		ReleaseNotes:          raw.ReleaseNotes,
		Version:               raw.Version,
		Price:                 raw.Price,
		Currency:              raw.Currency,
		Free:                  raw.Price == 0,
		DeveloperID:           raw.ArtistID,
		Developer:             raw.ArtistName,
		DeveloperURL:          raw.ArtistViewURL,
		DeveloperWebsite:      raw.SellerURL,
		Score:                 raw.AverageUserRating,
		Ratings:               raw.UserRatingCount,
		CurrentVersionScore:   raw.AverageUserRatingForCurrentVersion,
		CurrentVersionReviews: raw.UserRatingCountForCurrentVersion,
		Screenshots:           raw.ScreenshotURLs,
		IPadScreenshots:       raw.IPadScreenshotURLs,
		AppleTVScreenshots:    raw.AppleTVScreenshotURLs,
		SupportedDevices:      raw.SupportedDevices,
	}

	if !released.IsZero() {
		app.Released = released.Format(ReleasedLayout)
	}
	if !updated.IsZero() {
		app.Updated = updated.UnixMilli()
	}

	return app
}

func parseCatalogTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
