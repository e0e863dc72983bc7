package commits

import (
	"encoding/json"
	"net/mail"
	"regexp"
	"strconv"
	"time"

	"project-collab-api/internal/cache"
	"project-collab-api/internal/models"

	"gorm.io/gorm"
)

// Commit is the provider-neutral shape both webhook payloads normalize to
// before anything is stored.
type Commit struct {
	ID            string
	Message       string
	URL           string
	AuthorEmail   string
	Repository    string
	RepositoryURL string
	Timestamp     time.Time
}

var refPattern = regexp.MustCompile(`#(\d+)`)

// ProjectRefs extracts every numeric #id project reference from a commit
// message.
func ProjectRefs(message string) []uint {
	var refs []uint
	for _, m := range refPattern.FindAllStringSubmatch(message, -1) {
		id, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			continue
		}
		refs = append(refs, uint(id))
	}
	return refs
}

type githubPayload struct {
	Repository struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"repository"`
	Commits []struct {
		ID        string `json:"id"`
		Message   string `json:"message"`
		URL       string `json:"url"`
		Timestamp string `json:"timestamp"`
		Author    struct {
			Email string `json:"email"`
		} `json:"author"`
	} `json:"commits"`
}

// ParseGitHub normalizes a GitHub post-receive payload.
func ParseGitHub(raw []byte) ([]Commit, error) {
	var payload githubPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	out := make([]Commit, 0, len(payload.Commits))
	for _, c := range payload.Commits {
		ts, err := time.Parse(time.RFC3339, c.Timestamp)
		if err != nil {
			continue
		}
		out = append(out, Commit{
			ID:            c.ID,
			Message:       c.Message,
			URL:           c.URL,
			AuthorEmail:   c.Author.Email,
			Repository:    payload.Repository.Name,
			RepositoryURL: payload.Repository.URL,
			Timestamp:     ts.UTC(),
		})
	}
	return out, nil
}

type bitbucketPayload struct {
	CanonURL   string `json:"canon_url"`
	Repository struct {
		Name        string `json:"name"`
		AbsoluteURL string `json:"absolute_url"`
	} `json:"repository"`
	Commits []struct {
		RawNode      string `json:"raw_node"`
		Message      string `json:"message"`
		UTCTimestamp string `json:"utctimestamp"`
		RawAuthor    string `json:"raw_author"`
	} `json:"commits"`
}

const bitbucketTimeLayout = "2006-01-02 15:04:05-07:00"

// ParseBitbucket normalizes a Bitbucket POST-service payload. The author
// arrives as "Name <email>" and is reduced to the address part.
func ParseBitbucket(raw []byte) ([]Commit, error) {
	var payload bitbucketPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	repoURL := payload.CanonURL + payload.Repository.AbsoluteURL
	out := make([]Commit, 0, len(payload.Commits))
	for _, c := range payload.Commits {
		ts, err := time.Parse(bitbucketTimeLayout, c.UTCTimestamp)
		if err != nil {
			continue
		}
		email := ""
		if addr, err := mail.ParseAddress(c.RawAuthor); err == nil {
			email = addr.Address
		}
		out = append(out, Commit{
			ID:            c.RawNode,
			Message:       c.Message,
			URL:           repoURL + "changeset/" + c.RawNode,
			AuthorEmail:   email,
			Repository:    payload.Repository.Name,
			RepositoryURL: repoURL,
			Timestamp:     ts.UTC(),
		})
	}
	return out, nil
}

// userLookups memoizes committer email resolution across payloads; webhook
// bursts tend to repeat the same handful of authors.
var userLookups = cache.New[string, uint]()

const userLookupTTL = 5 * time.Minute

func resolveUser(db *gorm.DB, email string) (uint, bool) {
	if email == "" {
		return 0, false
	}
	if id, ok := userLookups.Get(email); ok {
		return id, true
	}
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return 0, false
	}
	userLookups.Set(email, user.ID, userLookupTTL)
	return user.ID, true
}

// Ingest stores one commit record per referenced project for every commit
// whose author matches a known user. Unmatched authors and messages without
// project references are skipped silently. Returns the number of records
// created.
func Ingest(db *gorm.DB, list []Commit) (int, error) {
	created := 0
	for _, c := range list {
		userID, ok := resolveUser(db, c.AuthorEmail)
		if !ok {
			continue
		}
		for _, projectID := range ProjectRefs(c.Message) {
			record := models.Commit{
				CommitTimestamp: c.Timestamp,
				ProjectID:       projectID,
				UserID:          userID,
				Repository:      c.Repository,
				RepositoryURL:   c.RepositoryURL,
				Message:         c.Message,
				CommitURL:       c.URL,
				CommitID:        c.ID,
			}
			if err := db.Create(&record).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
