package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/yigit/placement/internal/app/models"
)

const driveMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"company_name":{"type":"text","fields":{"raw":{"type":"keyword"}}},
	"job_role":{"type":"text","fields":{"raw":{"type":"keyword"}}},"location":{"type":"keyword"},
	"job_description":{"type":"text"},"status":{"type":"keyword"},"updated_at":{"type":"date"}
}}}`

// DriveDoc is the indexed form of a drive
type DriveDoc struct {
	CompanyName    string    `json:"company_name"`
	JobRole        string    `json:"job_role"`
	Location       string    `json:"location"`
	JobDescription string    `json:"job_description"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BuildDriveDoc converts a drive to its document body
func BuildDriveDoc(d *models.Drive) ([]byte, error) {
	return json.Marshal(DriveDoc{
		CompanyName:    d.CompanyName,
		JobRole:        d.JobRole,
		Location:       d.Location,
		JobDescription: d.JobDescription,
		Status:         string(d.Status),
		UpdatedAt:      d.UpdatedAt,
	})
}

// ElasticIndex is a DriveIndex backed by Elasticsearch
type ElasticIndex struct {
	client *es.Client
	index  string
}

// NewElasticIndex connects to the given addresses
func NewElasticIndex(addresses []string, index string) (*ElasticIndex, error) {
	client, err := es.NewClient(es.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticIndex{client: client, index: index}, nil
}

// EnsureIndex creates the drive index when it does not exist yet
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", e.index, err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := e.client.Indices.Create(e.index,
		e.client.Indices.Create.WithBody(bytes.NewBufferString(driveMapping)),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", e.index, err)
	}
	return checkResponse(res, "create index")
}

// IndexDrive upserts one drive document
func (e *ElasticIndex) IndexDrive(ctx context.Context, drive *models.Drive) error {
	body, err := BuildDriveDoc(drive)
	if err != nil {
		return err
	}

	res, err := e.client.Index(e.index, bytes.NewReader(body),
		e.client.Index.WithDocumentID(strconv.FormatInt(drive.ID, 10)),
		e.client.Index.WithRefresh("true"),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index drive %d: %w", drive.ID, err)
	}
	return checkResponse(res, "index drive")
}

// DeleteDrive removes a drive document; a missing document is not an error
func (e *ElasticIndex) DeleteDrive(ctx context.Context, driveID int64) error {
	res, err := e.client.Delete(e.index, strconv.FormatInt(driveID, 10),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete drive %d: %w", driveID, err)
	}
	if res.StatusCode == 404 {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete drive")
}

// Search returns the ids of drives whose company name or job role contains
// query, ignoring case
func (e *ElasticIndex) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	q := buildSearchQuery(query)
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search drives: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search drives: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// buildSearchQuery matches query as a substring of the keyword copies of
// company_name and job_role.
func buildSearchQuery(query string) map[string]interface{} {
	pattern := "*" + wildcardEscaper.Replace(strings.TrimSpace(query)) + "*"
	should := make([]interface{}, 0, 2)
	for _, field := range []string{"company_name.raw", "job_role.raw"} {
		should = append(should, map[string]interface{}{
			"wildcard": map[string]interface{}{
				field: map[string]interface{}{
					"value":            pattern,
					"case_insensitive": true,
				},
			},
		})
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"sort":    []interface{}{"_score", map[string]interface{}{"updated_at": "desc"}},
		"_source": false,
	}
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s: status %d: %s", op, res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
