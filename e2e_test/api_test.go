package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	"github.com/jakoblorz/go-leancloud/internal/models"
)

// fakeAPI serves the project API over HTTP on top of a MockDirectory, so the
// real client and its wire format are part of the workflow.
type fakeAPI struct {
	dir   *cloud.MockDirectory
	token string
}

type apiParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type apiRequest struct {
	ProjectID       int             `json:"projectId"`
	LibraryID       int             `json:"libraryId"`
	Name            string          `json:"name"`
	Language        string          `json:"language"`
	Content         string          `json:"content"`
	Description     *string         `json:"description"`
	Parameters      *[]apiParameter `json:"parameters"`
	LeanEngine      *int            `json:"leanEngine"`
	PythonVenv      *int            `json:"pythonVenv"`
	LeanEnvironment *int            `json:"leanEnvironment"`
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "errors": []string{"invalid token"}})
		return
	}

	var req apiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": []string{err.Error()}})
		return
	}

	resp, err := f.handle(r.Context(), strings.TrimPrefix(r.URL.Path, "/api/v2/"), req)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "errors": []string{err.Error()}})
		return
	}
	resp["success"] = true
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeAPI) handle(ctx context.Context, endpoint string, req apiRequest) (map[string]any, error) {
	switch endpoint {
	case "projects/create":
		language, err := models.ParseLanguage(req.Language)
		if err != nil {
			return nil, err
		}
		project, err := f.dir.Create(ctx, req.Name, language, req.LeanEnvironment)
		if err != nil {
			return nil, err
		}
		return map[string]any{"projects": []any{projectJSON(project)}}, nil

	case "projects/read":
		project, err := f.dir.Get(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"projects": []any{projectJSON(project)}}, nil

	case "projects/update":
		update := models.ProjectUpdate{
			Description: req.Description,
			Engine:      req.LeanEngine,
			Environment: req.PythonVenv,
		}
		if req.Parameters != nil {
			update.Parameters = make(map[string]string, len(*req.Parameters))
			for _, p := range *req.Parameters {
				update.Parameters[p.Key] = p.Value
			}
		}
		return map[string]any{}, f.dir.Update(ctx, req.ProjectID, update)

	case "projects/library/create":
		return map[string]any{}, f.dir.AddLibrary(ctx, req.ProjectID, req.LibraryID)

	case "projects/library/delete":
		return map[string]any{}, f.dir.DeleteLibrary(ctx, req.ProjectID, req.LibraryID)

	case "files/read":
		files, err := f.dir.ListFiles(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]string, 0, len(files))
		for _, file := range files {
			out = append(out, map[string]string{
				"name":     file.Name,
				"content":  file.Content,
				"modified": file.Modified.Format("2006-01-02 15:04:05"),
			})
		}
		return map[string]any{"files": out}, nil

	case "files/create":
		return map[string]any{}, f.dir.CreateFile(ctx, req.ProjectID, req.Name, req.Content)

	case "files/update":
		return map[string]any{}, f.dir.UpdateFile(ctx, req.ProjectID, req.Name, req.Content)

	case "lean/environments":
		environments, err := f.dir.ListEnvironments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(environments))
		for _, env := range environments {
			out = append(out, map[string]any{"id": env.ID, "name": env.Name, "description": env.Description})
		}
		return map[string]any{"environments": out}, nil
	}

	return nil, &unknownEndpointError{endpoint: endpoint}
}

type unknownEndpointError struct {
	endpoint string
}

func (e *unknownEndpointError) Error() string {
	return "unknown endpoint " + e.endpoint
}

func projectJSON(p *models.RemoteProject) map[string]any {
	libraries := make([]map[string]any, 0, len(p.Libraries))
	for _, id := range p.Libraries {
		libraries = append(libraries, map[string]any{"projectId": id})
	}

	keys := make([]string, 0, len(p.Parameters))
	for k := range p.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parameters := make([]apiParameter, 0, len(keys))
	for _, k := range keys {
		parameters = append(parameters, apiParameter{Key: k, Value: p.Parameters[k]})
	}

	return map[string]any{
		"projectId":          p.ID,
		"name":               p.Name,
		"description":        p.Description,
		"language":           p.Language.String(),
		"libraries":          libraries,
		"leanVersionId":      p.EngineVersion,
		"leanPinnedToMaster": p.PinnedToDefault,
		"leanEnvironment":    p.Environment,
		"parameters":         parameters,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
