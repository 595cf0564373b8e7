package manifests

// Manifest records the outcome of one upload batch for one subject. It is
// stored as {group}-{subject}.uploaded.json (or .preview.json when nothing was
// uploaded) in the manifests directory.
type Manifest struct {
	SubjectQuery string `json:"subjectQuery"`
	Group        string `json:"group"`
	SubjectName  string `json:"subjectName"`
	SourceFolder string `json:"sourceFolder,omitempty"`
	TotalItems   int    `json:"totalItems"`
	Uploaded     bool   `json:"uploaded"`
	GeneratedAt  string `json:"generatedAt,omitempty"`
	Items        []Item `json:"items"`
}

// Item is one media file of a manifest. RemoteURL is only set once the file is
// confirmed to exist remotely.
type Item struct {
	LocalPath    string `json:"localPath"`
	RelativePath string `json:"relativePath"`
	RemoteID     string `json:"remoteId"`
	RemoteFolder string `json:"remoteFolder"`
	RemoteURL    string `json:"remoteUrl,omitempty"`
	Skipped      bool   `json:"skipped,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Skip reasons written by the uploader.
const (
	ReasonExistingManifest = "existing-manifest"
	ReasonAlreadyRemote    = "already-remote"
)

// document is the on-disk shape accepted when reading. Manifests written by
// older tooling use modelQuery/gender/modelFolderName/totalImages and
// publicId/assetFolder/secureUrl for items.
type document struct {
	SubjectQuery string         `json:"subjectQuery" mod:"trim"`
	Group        string         `json:"group" mod:"trim,lcase"`
	SubjectName  string         `json:"subjectName" mod:"trim" validate:"omitempty,slugable"`
	SourceFolder string         `json:"sourceFolder"`
	TotalItems   int            `json:"totalItems" validate:"min=0"`
	Uploaded     bool           `json:"uploaded"`
	GeneratedAt  string         `json:"generatedAt"`
	Items        []documentItem `json:"items" validate:"dive"`

	ModelQuery      string `json:"modelQuery" mod:"trim"`
	Gender          string `json:"gender" mod:"trim,lcase"`
	ModelFolderName string `json:"modelFolderName" mod:"trim" validate:"omitempty,slugable"`
	TotalImages     int    `json:"totalImages" validate:"min=0"`
}

type documentItem struct {
	LocalPath    string `json:"localPath"`
	RelativePath string `json:"relativePath" mod:"trim"`
	RemoteID     string `json:"remoteId" mod:"trim"`
	RemoteFolder string `json:"remoteFolder" mod:"trim"`
	RemoteURL    string `json:"remoteUrl" mod:"trim" validate:"remoteurl"`
	Skipped      bool   `json:"skipped"`
	Reason       string `json:"reason"`

	PublicID    string `json:"publicId" mod:"trim"`
	AssetFolder string `json:"assetFolder" mod:"trim"`
	SecureURL   string `json:"secureUrl" mod:"trim" validate:"remoteurl"`
}

func (d *document) manifest() *Manifest {
	m := &Manifest{
		SubjectQuery: first(d.SubjectQuery, d.ModelQuery),
		Group:        first(d.Group, d.Gender),
		SubjectName:  first(d.SubjectName, d.ModelFolderName),
		SourceFolder: d.SourceFolder,
		TotalItems:   d.TotalItems,
		Uploaded:     d.Uploaded,
		GeneratedAt:  d.GeneratedAt,
		Items:        make([]Item, 0, len(d.Items)),
	}
	if m.TotalItems == 0 {
		m.TotalItems = d.TotalImages
	}
	for _, it := range d.Items {
		m.Items = append(m.Items, Item{
			LocalPath:    it.LocalPath,
			RelativePath: it.RelativePath,
			RemoteID:     first(it.RemoteID, it.PublicID),
			RemoteFolder: first(it.RemoteFolder, it.AssetFolder),
			RemoteURL:    first(it.RemoteURL, it.SecureURL),
			Skipped:      it.Skipped,
			Reason:       it.Reason,
		})
	}
	return m
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
