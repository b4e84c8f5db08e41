package dynamo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"coolingcore/pkg/domain"
)

// fakeClient keeps items in memory keyed username/project_name.
type fakeClient struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	failWith error
	pageSize int
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func itemKey(item map[string]types.AttributeValue) (string, error) {
	owner, ok := item["username"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("missing username attribute")
	}
	name, ok := item["project_name"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("missing project_name attribute")
	}
	return owner.Value + "/" + name.Value, nil
}

func (c *fakeClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	key, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: c.items[key]}, nil
}

func (c *fakeClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	key, err := itemKey(params.Item)
	if err != nil {
		return nil, err
	}
	c.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (c *fakeClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	key, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	old, ok := c.items[key]
	delete(c.items, key)
	out := &dynamodb.DeleteItemOutput{}
	if ok && params.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

func (c *fakeClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	owner, ok := params.ExpressionAttributeValues[":owner"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("missing :owner expression value")
	}
	var keys []string
	for key := range c.items {
		if item := c.items[key]; item != nil {
			if u, ok := item["username"].(*types.AttributeValueMemberS); ok && u.Value == owner.Value {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		marker, err := itemKey(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		for i, key := range keys {
			if key == marker {
				start = i + 1
				break
			}
		}
	}
	end := len(keys)
	if c.pageSize > 0 && start+c.pageSize < end {
		end = start + c.pageSize
	}

	out := &dynamodb.QueryOutput{}
	for _, key := range keys[start:end] {
		out.Items = append(out.Items, c.items[key])
	}
	if end < len(keys) && len(out.Items) > 0 {
		last := out.Items[len(out.Items)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"username":     last["username"],
			"project_name": last["project_name"],
		}
	}
	return out, nil
}

func record(owner, name string) domain.ProjectRecord {
	return domain.ProjectRecord{
		Owner:     owner,
		Name:      name,
		Config:    []byte(`{"project_name":"` + name + `"}`),
		CreatedAt: "2026-08-01T10:00:00Z",
		UpdatedAt: "2026-08-01T10:00:00Z",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewWithClient(newFakeClient(), "projects")
	if store.Table() != "projects" {
		t.Fatalf("table = %q", store.Table())
	}
	if err := store.Put(ctx, record("alice", "hq")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "alice", "hq")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Owner != "alice" || got.Name != "hq" {
		t.Fatalf("record = %+v", got)
	}
	if string(got.Config) != `{"project_name":"hq"}` || got.CreatedAt != "2026-08-01T10:00:00Z" {
		t.Fatalf("record = %+v", got)
	}
	if _, ok, err := store.Get(ctx, "alice", "absent"); err != nil || ok {
		t.Fatalf("absent key: ok=%v err=%v", ok, err)
	}
}

func TestStoreDefaultTable(t *testing.T) {
	store := NewWithClient(newFakeClient(), "")
	if store.Table() != DefaultTable {
		t.Fatalf("table = %q, want %q", store.Table(), DefaultTable)
	}
}

func TestStorePutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewWithClient(newFakeClient(), "projects")
	first := record("alice", "hq")
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	second := first
	second.UpdatedAt = "2026-08-02T10:00:00Z"
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _, err := store.Get(ctx, "alice", "hq")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UpdatedAt != "2026-08-02T10:00:00Z" {
		t.Fatalf("overwrite not applied: %+v", got)
	}
}

func TestStoreLegacyItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewWithClient(newFakeClient(), "projects")
	legacy := domain.ProjectRecord{
		Owner:         "alice",
		Name:          "old",
		LegacyResults: []byte(`{"tonnage":12.5}`),
	}
	if err := store.Put(ctx, legacy); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "alice", "old")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !got.IsLegacy() {
		t.Fatalf("record should round-trip as legacy: %+v", got)
	}
	if len(got.Config) != 0 {
		t.Fatalf("absent config must stay absent, got %q", got.Config)
	}
}

// seed installs a raw item, bypassing Put, to mimic rows written by
// other writers against the same table.
func (c *fakeClient) seed(owner, name string, attrs map[string]types.AttributeValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := map[string]types.AttributeValue{
		"username":     &types.AttributeValueMemberS{Value: owner},
		"project_name": &types.AttributeValueMemberS{Value: name},
	}
	for k, v := range attrs {
		item[k] = v
	}
	c.items[owner+"/"+name] = item
}

func TestStoreReadsStringDocumentAttributes(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewWithClient(client, "projects")
	client.seed("alice", "flat", map[string]types.AttributeValue{
		"results": &types.AttributeValueMemberS{Value: `{"tonnage":12.5,"occupancy":20.0}`},
	})
	client.seed("alice", "hq", map[string]types.AttributeValue{
		"config":     &types.AttributeValueMemberS{Value: `{"project_name":"hq","square_footage":9000}`},
		"created_at": &types.AttributeValueMemberS{Value: "2026-08-01T10:00:00Z"},
		"updated_at": &types.AttributeValueMemberS{Value: "2026-08-01T10:00:00Z"},
	})

	got, ok, err := store.Get(ctx, "alice", "flat")
	if err != nil || !ok {
		t.Fatalf("Get flat: ok=%v err=%v", ok, err)
	}
	if !got.IsLegacy() {
		t.Fatalf("string results item should read as legacy: %+v", got)
	}
	if string(got.LegacyResults) != `{"tonnage":12.5,"occupancy":20.0}` {
		t.Fatalf("results = %q", got.LegacyResults)
	}

	records, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if string(records[1].Config) != `{"project_name":"hq","square_footage":9000}` {
		t.Fatalf("config = %q", records[1].Config)
	}
}

func TestStoreReadsBinaryDocumentAttributes(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewWithClient(client, "projects")
	client.seed("alice", "hq", map[string]types.AttributeValue{
		"config": &types.AttributeValueMemberB{Value: []byte(`{"project_name":"hq"}`)},
	})
	got, ok, err := store.Get(ctx, "alice", "hq")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Config) != `{"project_name":"hq"}` {
		t.Fatalf("config = %q", got.Config)
	}
}

func TestStorePutWritesStringDocumentAttributes(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewWithClient(client, "projects")
	if err := store.Put(ctx, record("alice", "hq")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	client.mu.Lock()
	item := client.items["alice/hq"]
	client.mu.Unlock()
	av, ok := item["config"].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("config attribute = %T, want string", item["config"])
	}
	if av.Value != `{"project_name":"hq"}` {
		t.Fatalf("config = %q", av.Value)
	}
}

func TestStoreListQueriesPartition(t *testing.T) {
	ctx := context.Background()
	store := NewWithClient(newFakeClient(), "projects")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.Put(ctx, record("alice", name)); err != nil {
			t.Fatalf("Put %s: %v", name, err)
		}
	}
	if err := store.Put(ctx, record("bob", "other")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	records, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for _, rec := range records {
		if rec.Owner != "alice" {
			t.Fatalf("foreign partition leaked: %+v", rec)
		}
	}
}

func TestStoreListFollowsPagination(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.pageSize = 2
	store := NewWithClient(client, "projects")
	for i := 0; i < 5; i++ {
		if err := store.Put(ctx, record("alice", fmt.Sprintf("proj-%d", i))); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	records, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("records = %d, want all pages followed", len(records))
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewWithClient(newFakeClient(), "projects")
	if err := store.Put(ctx, record("alice", "hq")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	existed, err := store.Delete(ctx, "alice", "hq")
	if err != nil || !existed {
		t.Fatalf("Delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "alice", "hq")
	if err != nil || existed {
		t.Fatalf("second Delete: existed=%v err=%v", existed, err)
	}
}

func TestStoreSurfacesClientFailures(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.failWith = fmt.Errorf("throttled")
	store := NewWithClient(client, "projects")
	if err := store.Put(ctx, record("alice", "hq")); err == nil {
		t.Fatalf("expected put error")
	}
	if _, _, err := store.Get(ctx, "alice", "hq"); err == nil {
		t.Fatalf("expected get error")
	}
	if _, err := store.List(ctx, "alice"); err == nil {
		t.Fatalf("expected list error")
	}
	if _, err := store.Delete(ctx, "alice", "hq"); err == nil {
		t.Fatalf("expected delete error")
	}
}
