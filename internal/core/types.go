package core

// RawApp is a single entry of the lookup endpoint's `results` array.
type RawApp struct {
	WrapperType                        string   `json:"wrapperType,omitempty"`
	Kind                               string   `json:"kind,omitempty"`
	TrackID                            int64    `json:"trackId"`
	BundleID                           string   `json:"bundleId"`
	TrackName                          string   `json:"trackName"`
	TrackViewURL                       string   `json:"trackViewUrl"`
	Description                        string   `json:"description"`
	ArtworkURL512                      string   `json:"artworkUrl512,omitempty"`
	ArtworkURL100                      string   `json:"artworkUrl100,omitempty"`
	ArtworkURL60                       string   `json:"artworkUrl60,omitempty"`
	Genres                             []string `json:"genres"`
	GenreIDs                           []string `json:"genreIds"`
	PrimaryGenreName                   string   `json:"primaryGenreName"`
	PrimaryGenreID                     int64    `json:"primaryGenreId"`
	ContentAdvisoryRating              string   `json:"contentAdvisoryRating"`
	LanguageCodesISO2A                 []string `json:"languageCodesISO2A"`
	FileSizeBytes                      string   `json:"fileSizeBytes"`
	MinimumOSVersion                   string   `json:"minimumOsVersion"`
	ReleaseDate                        string   `json:"releaseDate"`
	CurrentVersionReleaseDate          string   `json:"currentVersionReleaseDate,omitempty"`
	ReleaseNotes                       string   `json:"releaseNotes,omitempty"`
	Version                            string   `json:"version"`
	Price                              float64  `json:"price"`
	Currency                           string   `json:"currency"`
	ArtistID                           int64    `json:"artistId"`
	ArtistName                         string   `json:"artistName"`
	ArtistViewURL                      string   `json:"artistViewUrl"`
	SellerURL                          string   `json:"sellerUrl,omitempty"`
	AverageUserRating                  float64  `json:"averageUserRating"`
	UserRatingCount                    int64    `json:"userRatingCount"`
	AverageUserRatingForCurrentVersion float64  `json:"averageUserRatingForCurrentVersion"`
	UserRatingCountForCurrentVersion   int64    `json:"userRatingCountForCurrentVersion"`
	ScreenshotURLs                     []string `json:"screenshotUrls"`
	IPadScreenshotURLs                 []string `json:"ipadScreenshotUrls"`
	AppleTVScreenshotURLs              []string `json:"appletvScreenshotUrls"`
	SupportedDevices                   []string `json:"supportedDevices"`
}

// App is the flattened record produced by CleanApp.
type App struct {
	ID                    int64    `json:"id" yaml:"id"`
	AppID                 int64    `json:"appId" yaml:"appId"`
	BundleID              string   `json:"bundleId" yaml:"bundleId"`
	Title                 string   `json:"title" yaml:"title"`
	URL                   string   `json:"url" yaml:"url"`
	Description           string   `json:"description" yaml:"description"`
	Icon                  string   `json:"icon" yaml:"icon"`
	Genres                []string `json:"genres" yaml:"genres"`
	GenreIDs              []string `json:"genreIds" yaml:"genreIds"`
	PrimaryGenre          string   `json:"primaryGenre" yaml:"primaryGenre"`
	PrimaryGenreID        int64    `json:"primaryGenreId" yaml:"primaryGenreId"`
	ContentRating         string   `json:"contentRating" yaml:"contentRating"`
	Languages             []string `json:"languages" yaml:"languages"`
	Size                  string   `json:"size" yaml:"size"`
	RequiredOSVersion     string   `json:"requiredOsVersion" yaml:"requiredOsVersion"`
	Released              string   `json:"released" yaml:"released"`
	Updated               int64    `json:"updated" yaml:"updated"`
	ReleaseNotes          string   `json:"releaseNotes,omitempty" yaml:"releaseNotes,omitempty"`
	Version               string   `json:"version" yaml:"version"`
	Price                 float64  `json:"price" yaml:"price"`
	Currency              string   `json:"currency" yaml:"currency"`
	Free                  bool     `json:"free" yaml:"free"`
	DeveloperID           int64    `json:"developerId" yaml:"developerId"`
	Developer             string   `json:"developer" yaml:"developer"`
	DeveloperURL          string   `json:"developerUrl" yaml:"developerUrl"`
	DeveloperWebsite      string   `json:"developerWebsite,omitempty" yaml:"developerWebsite,omitempty"`
	Score                 float64  `json:"score" yaml:"score"`
	Ratings               int64    `json:"ratings" yaml:"ratings"`
	CurrentVersionScore   float64  `json:"currentVersionScore" yaml:"currentVersionScore"`
	CurrentVersionReviews int64    `json:"currentVersionReviews" yaml:"currentVersionReviews"`
	Screenshots           []string `json:"screenshots" yaml:"screenshots"`
	IPadScreenshots       []string `json:"ipadScreenshots" yaml:"ipadScreenshots"`
	AppleTVScreenshots    []string `json:"appletvScreenshots" yaml:"appletvScreenshots"`
	SupportedDevices      []string `json:"supportedDevices" yaml:"supportedDevices"`
}

// PrivacyDetails is the `attributes.privacyDetails` payload of the catalog API.
type PrivacyDetails struct {
	ManagePrivacyChoicesURL string        `json:"managePrivacyChoicesUrl,omitempty" yaml:"managePrivacyChoicesUrl,omitempty"`
	PrivacyTypes            []PrivacyType `json:"privacyTypes" yaml:"privacyTypes"`
}

// PrivacyType is one disclosure section, e.g. "Data Used to Track You".
type PrivacyType struct {
	PrivacyType    string           `json:"privacyType" yaml:"privacyType"`
	Identifier     string           `json:"identifier" yaml:"identifier"`
	Description    string           `json:"description" yaml:"description"`
	DataCategories []DataCategory   `json:"dataCategories" yaml:"dataCategories"`
	Purposes       []PrivacyPurpose `json:"purposes" yaml:"purposes"`
}

// DataCategory groups the data types collected under a category.
type DataCategory struct {
	DataCategory string   `json:"dataCategory" yaml:"dataCategory"`
	Identifier   string   `json:"identifier" yaml:"identifier"`
	DataTypes    []string `json:"dataTypes" yaml:"dataTypes"`
}

// PrivacyPurpose lists data categories collected for a purpose.
type PrivacyPurpose struct {
	Purpose        string         `json:"purpose" yaml:"purpose"`
	Identifier     string         `json:"identifier" yaml:"identifier"`
	DataCategories []DataCategory `json:"dataCategories" yaml:"dataCategories"`
}
