package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Kiransoodyall03/nightlife-app-sub000/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// memStore is an in-memory DocumentStore with the same conditional and
// atomic semantics DynamoDB gives the expressions this service uses. A
// single mutex serializes every operation, so concurrent service calls in
// tests exercise real interleavings of atomic steps.
type memStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

var _ DocumentStore = (*memStore)(nil)

var memTableKeys = map[string][]string{
	models.GroupsTable:       {"groupId"},
	models.UserProfilesTable: {"userId"},
	models.FiltersTable:      {"filterId"},
	models.InviteCodesTable:  {"code"},
	models.SwipesTable:       {"userId", "locationId"},
	models.GroupSwipesTable:  {"groupId", "swipeKey"},
	models.MatchesTable:      {"groupId", "locationId"},
}

func newMemStore() *memStore {
	return &memStore{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (m *memStore) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := m.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		m.tables[name] = t
	}
	return t
}

func (m *memStore) keyString(tableName string, attrs map[string]types.AttributeValue) (string, error) {
	keys, ok := memTableKeys[tableName]
	if !ok {
		return "", fmt.Errorf("memStore: unknown table %q", tableName)
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s, ok := attrs[k].(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("memStore: missing key attribute %q for table %q", k, tableName)
		}
		parts = append(parts, s.Value)
	}
	return strings.Join(parts, "\x1f"), nil
}

func (m *memStore) GetItem(_ context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ks, err := m.keyString(tableName, key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(tableName)[ks]
	if !ok {
		return nil, ErrItemNotFound
	}
	return copyItem(item), nil
}

func (m *memStore) PutItem(_ context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(tableName, marshaled)
}

func (m *memStore) putLocked(tableName string, item map[string]types.AttributeValue) error {
	ks, err := m.keyString(tableName, item)
	if err != nil {
		return err
	}
	m.table(tableName)[ks] = copyItem(item)
	return nil
}

func (m *memStore) CreateItem(_ context.Context, tableName string, item interface{}, _ string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ks, err := m.keyString(tableName, marshaled)
	if err != nil {
		return err
	}
	if _, exists := m.table(tableName)[ks]; exists {
		return fmt.Errorf("create in table '%s': %w", tableName, ErrConditionFailed)
	}
	m.table(tableName)[ks] = copyItem(marshaled)
	return nil
}

func (m *memStore) UpdateItem(ctx context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return m.UpdateItemWithCondition(ctx, tableName, updateExpression, "", key, values, names)
}

func (m *memStore) UpdateItemWithCondition(_ context.Context, tableName, updateExpression, conditionExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(tableName, updateExpression, conditionExpression, key, values, names)
}

func (m *memStore) updateLocked(tableName, updateExpression, conditionExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	ks, err := m.keyString(tableName, key)
	if err != nil {
		return nil, err
	}
	existing := m.table(tableName)[ks]
	if !evalCondition(existing, substituteNames(conditionExpression, names), values) {
		return nil, fmt.Errorf("update in table '%s': %w", tableName, ErrConditionFailed)
	}

	// DynamoDB upserts on UpdateItem: an absent item is created from its key.
	item := copyItem(existing)
	if item == nil {
		item = map[string]types.AttributeValue{}
		for k, v := range key {
			item[k] = v
		}
	}
	if err := applyUpdate(item, substituteNames(updateExpression, names), values); err != nil {
		return nil, err
	}
	m.table(tableName)[ks] = item
	return copyItem(item), nil
}

func (m *memStore) DeleteItem(_ context.Context, tableName string, key map[string]types.AttributeValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ks, err := m.keyString(tableName, key)
	if err != nil {
		return err
	}
	delete(m.table(tableName), ks)
	return nil
}

func (m *memStore) QueryItems(_ context.Context, tableName, keyConditionExpression string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	field, ref, ok := parseEquality(substituteNames(keyConditionExpression, names))
	if !ok {
		return nil, fmt.Errorf("memStore: unsupported key condition %q", keyConditionExpression)
	}
	want, ok := values[ref].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("memStore: missing value %q in key condition", ref)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for ks, item := range m.table(tableName) {
		if s, ok := item[field].(*types.AttributeValueMemberS); ok && s.Value == want.Value {
			keys = append(keys, ks)
		}
	}
	sort.Strings(keys)
	var out []map[string]types.AttributeValue
	for _, ks := range keys {
		out = append(out, copyItem(m.table(tableName)[ks]))
		if limit > 0 && int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) TransactWriteItems(_ context.Context, items []types.TransactWriteItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All conditions are checked before any write lands, so a failed
	// condition cancels the whole transaction.
	for _, it := range items {
		switch {
		case it.Put != nil:
			ks, err := m.keyString(aws.ToString(it.Put.TableName), it.Put.Item)
			if err != nil {
				return err
			}
			existing := m.table(aws.ToString(it.Put.TableName))[ks]
			if !evalCondition(existing, substituteNames(aws.ToString(it.Put.ConditionExpression), it.Put.ExpressionAttributeNames), it.Put.ExpressionAttributeValues) {
				return fmt.Errorf("transaction: %w", ErrConditionFailed)
			}
		case it.Update != nil:
			ks, err := m.keyString(aws.ToString(it.Update.TableName), it.Update.Key)
			if err != nil {
				return err
			}
			existing := m.table(aws.ToString(it.Update.TableName))[ks]
			if !evalCondition(existing, substituteNames(aws.ToString(it.Update.ConditionExpression), it.Update.ExpressionAttributeNames), it.Update.ExpressionAttributeValues) {
				return fmt.Errorf("transaction: %w", ErrConditionFailed)
			}
		case it.Delete != nil:
			if _, err := m.keyString(aws.ToString(it.Delete.TableName), it.Delete.Key); err != nil {
				return err
			}
		default:
			return fmt.Errorf("memStore: empty transact item")
		}
	}

	for _, it := range items {
		switch {
		case it.Put != nil:
			if err := m.putLocked(aws.ToString(it.Put.TableName), it.Put.Item); err != nil {
				return err
			}
		case it.Update != nil:
			_, err := m.updateLocked(aws.ToString(it.Update.TableName),
				aws.ToString(it.Update.UpdateExpression), "",
				it.Update.Key, it.Update.ExpressionAttributeValues, it.Update.ExpressionAttributeNames)
			if err != nil {
				return err
			}
		case it.Delete != nil:
			ks, _ := m.keyString(aws.ToString(it.Delete.TableName), it.Delete.Key)
			delete(m.table(aws.ToString(it.Delete.TableName)), ks)
		}
	}
	return nil
}

func (m *memStore) BatchWriteItems(_ context.Context, tableName string, writeRequests []types.WriteRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range writeRequests {
		switch {
		case req.PutRequest != nil:
			if err := m.putLocked(tableName, req.PutRequest.Item); err != nil {
				return err
			}
		case req.DeleteRequest != nil:
			ks, err := m.keyString(tableName, req.DeleteRequest.Key)
			if err != nil {
				return err
			}
			delete(m.table(tableName), ks)
		}
	}
	return nil
}

// --- expression interpretation -----------------------------------------

func substituteNames(expr string, names map[string]string) string {
	for placeholder, actual := range names {
		expr = strings.ReplaceAll(expr, placeholder, actual)
	}
	return expr
}

var updateVerbs = map[string]bool{"SET": true, "ADD": true, "DELETE": true, "REMOVE": true}

// applyUpdate mutates item according to an update expression limited to
// the SET/ADD/DELETE/REMOVE forms the services emit.
func applyUpdate(item map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue) error {
	var verb string
	var clause []string
	flush := func() error {
		if verb == "" || len(clause) == 0 {
			return nil
		}
		body := strings.Join(clause, " ")
		for _, part := range strings.Split(body, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if err := applyClause(item, verb, part, values); err != nil {
				return err
			}
		}
		clause = clause[:0]
		return nil
	}

	for _, tok := range strings.Fields(expr) {
		if updateVerbs[tok] {
			if err := flush(); err != nil {
				return err
			}
			verb = tok
			continue
		}
		clause = append(clause, tok)
	}
	return flush()
}

func applyClause(item map[string]types.AttributeValue, verb, part string, values map[string]types.AttributeValue) error {
	switch verb {
	case "SET":
		field, ref, ok := parseEquality(part)
		if !ok {
			return fmt.Errorf("memStore: bad SET clause %q", part)
		}
		val, ok := values[ref]
		if !ok {
			return fmt.Errorf("memStore: missing value %q", ref)
		}
		item[field] = val
	case "ADD":
		field, ref, ok := parsePair(part)
		if !ok {
			return fmt.Errorf("memStore: bad ADD clause %q", part)
		}
		val, ok := values[ref]
		if !ok {
			return fmt.Errorf("memStore: missing value %q", ref)
		}
		switch v := val.(type) {
		case *types.AttributeValueMemberN:
			current := 0
			if existing, ok := item[field].(*types.AttributeValueMemberN); ok {
				current, _ = strconv.Atoi(existing.Value)
			}
			delta, err := strconv.Atoi(v.Value)
			if err != nil {
				return err
			}
			item[field] = &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
		case *types.AttributeValueMemberSS:
			set := map[string]struct{}{}
			if existing, ok := item[field].(*types.AttributeValueMemberSS); ok {
				for _, s := range existing.Value {
					set[s] = struct{}{}
				}
			}
			for _, s := range v.Value {
				set[s] = struct{}{}
			}
			item[field] = &types.AttributeValueMemberSS{Value: sortedSet(set)}
		default:
			return fmt.Errorf("memStore: unsupported ADD value type %T", val)
		}
	case "DELETE":
		field, ref, ok := parsePair(part)
		if !ok {
			return fmt.Errorf("memStore: bad DELETE clause %q", part)
		}
		val, ok := values[ref].(*types.AttributeValueMemberSS)
		if !ok {
			return fmt.Errorf("memStore: DELETE requires a string set value")
		}
		existing, ok := item[field].(*types.AttributeValueMemberSS)
		if !ok {
			return nil
		}
		remove := map[string]struct{}{}
		for _, s := range val.Value {
			remove[s] = struct{}{}
		}
		var kept []string
		for _, s := range existing.Value {
			if _, gone := remove[s]; !gone {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(item, field) // DynamoDB removes empty sets
		} else {
			sort.Strings(kept)
			item[field] = &types.AttributeValueMemberSS{Value: kept}
		}
	case "REMOVE":
		delete(item, strings.TrimSpace(part))
	default:
		return fmt.Errorf("memStore: unsupported verb %q", verb)
	}
	return nil
}

// evalCondition covers the condition forms the services emit:
// attribute_not_exists / attribute_exists, contains and its negation, and
// simple equality. An empty condition is always true.
func evalCondition(item map[string]types.AttributeValue, cond string, values map[string]types.AttributeValue) bool {
	cond = strings.TrimSpace(cond)
	switch {
	case cond == "":
		return true
	case strings.HasPrefix(cond, "NOT "):
		return !evalCondition(item, strings.TrimPrefix(cond, "NOT "), values)
	case strings.HasPrefix(cond, "attribute_not_exists("):
		return item == nil
	case strings.HasPrefix(cond, "attribute_exists("):
		return item != nil
	case strings.HasPrefix(cond, "contains("):
		inner := strings.TrimSuffix(strings.TrimPrefix(cond, "contains("), ")")
		parts := strings.SplitN(inner, ",", 2)
		if len(parts) != 2 || item == nil {
			return false
		}
		field := strings.TrimSpace(parts[0])
		want, ok := values[strings.TrimSpace(parts[1])].(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		set, ok := item[field].(*types.AttributeValueMemberSS)
		if !ok {
			return false
		}
		for _, s := range set.Value {
			if s == want.Value {
				return true
			}
		}
		return false
	default:
		field, ref, ok := parseEquality(cond)
		if !ok || item == nil {
			return false
		}
		return equalAttr(item[field], values[ref])
	}
}

func equalAttr(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func parseEquality(s string) (field, ref string, ok bool) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func parsePair(s string) (field, ref string, ok bool) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = copyAttr(v)
	}
	return out
}

func copyAttr(v types.AttributeValue) types.AttributeValue {
	switch av := v.(type) {
	case *types.AttributeValueMemberSS:
		return &types.AttributeValueMemberSS{Value: append([]string(nil), av.Value...)}
	case *types.AttributeValueMemberL:
		vals := make([]types.AttributeValue, len(av.Value))
		for i, inner := range av.Value {
			vals[i] = copyAttr(inner)
		}
		return &types.AttributeValueMemberL{Value: vals}
	case *types.AttributeValueMemberM:
		return &types.AttributeValueMemberM{Value: copyItem(av.Value)}
	default:
		return v
	}
}
