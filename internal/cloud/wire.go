package cloud

import (
	"sort"
	"time"

	"github.com/jakoblorz/go-leancloud/internal/models"
)

// Wire types of the project API. Only the fields the CLI reads are declared.

type apiResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

type projectIDRequest struct {
	ProjectID int `json:"projectId"`
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Environment *int   `json:"leanEnvironment,omitempty"`
}

type updateProjectRequest struct {
	ProjectID   int              `json:"projectId"`
	Description *string          `json:"description,omitempty"`
	Parameters  *[]wireParameter `json:"parameters,omitempty"`
	Engine      *int             `json:"leanEngine,omitempty"`
	Environment *int             `json:"pythonVenv,omitempty"`
}

type libraryRequest struct {
	ProjectID int `json:"projectId"`
	LibraryID int `json:"libraryId"`
}

type fileRequest struct {
	ProjectID int    `json:"projectId"`
	Name      string `json:"name"`
	Content   string `json:"content"`
}

type projectsResponse struct {
	apiResponse
	Projects []wireProject `json:"projects"`
}

type filesResponse struct {
	apiResponse
	Files []wireFile `json:"files"`
}

type environmentsResponse struct {
	apiResponse
	Environments []wireEnvironment `json:"environments"`
}

type wireProject struct {
	ProjectID       int             `json:"projectId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Language        string          `json:"language"`
	Libraries       []wireLibrary   `json:"libraries"`
	LeanVersionID   int             `json:"leanVersionId"`
	PinnedToMaster  bool            `json:"leanPinnedToMaster"`
	LeanEnvironment *int            `json:"leanEnvironment"`
	Parameters      []wireParameter `json:"parameters"`
}

type wireLibrary struct {
	ProjectID int    `json:"projectId"`
	Name      string `json:"libraryName,omitempty"`
}

type wireParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type wireFile struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Modified string `json:"modified"`
}

type wireEnvironment struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// modifiedLayout is the timestamp format the API uses.
const modifiedLayout = "2006-01-02 15:04:05"

func convertProject(p wireProject) *models.RemoteProject {
	project := &models.RemoteProject{
		ID:              p.ProjectID,
		Name:            p.Name,
		Description:     p.Description,
		EngineVersion:   p.LeanVersionID,
		PinnedToDefault: p.PinnedToMaster,
		Environment:     p.LeanEnvironment,
		Parameters:      make(map[string]string, len(p.Parameters)),
	}
	if language, err := models.ParseLanguage(p.Language); err == nil {
		project.Language = language
	}
	for _, library := range p.Libraries {
		project.Libraries = append(project.Libraries, library.ProjectID)
	}
	for _, parameter := range p.Parameters {
		project.Parameters[parameter.Key] = parameter.Value
	}
	return project
}

func convertFile(f wireFile) *models.RemoteFile {
	file := &models.RemoteFile{Name: f.Name, Content: f.Content}
	if modified, err := time.Parse(modifiedLayout, f.Modified); err == nil {
		file.Modified = modified
	}
	return file
}

// toWireParameters renders parameters sorted by key so requests are stable.
// A nil map is not sent; an empty one clears the remote parameters.
func toWireParameters(parameters map[string]string) *[]wireParameter {
	if parameters == nil {
		return nil
	}

	keys := make([]string, 0, len(parameters))
	for k := range parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wire := make([]wireParameter, 0, len(keys))
	for _, k := range keys {
		wire = append(wire, wireParameter{Key: k, Value: parameters[k]})
	}
	return &wire
}
