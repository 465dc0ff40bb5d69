package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openzhmc/zhmc/internal/client"
	"github.com/openzhmc/zhmc/internal/output"
)

// listOptions are the options shared by all list commands.
type listOptions struct {
	namesOnly bool
	uri       bool
	all       bool
	filter    string
	sort      string
}

func addListFlags(cmd *cobra.Command, o *listOptions) {
	cmd.Flags().BoolVar(&o.namesOnly, "names-only", false,
		"Restrict properties shown to only the names of the resource and its parents")
	cmd.Flags().BoolVar(&o.uri, "uri", false,
		"Add the resource URI to the properties shown")
	cmd.Flags().BoolVar(&o.all, "all", false,
		"Show all properties")
	cmd.Flags().StringVar(&o.filter, "filter", "",
		"Filter the listed resources by their property values (PROP=VALUE,...)")
	cmd.Flags().StringVar(&o.sort, "sort", "",
		"Sort the listed resources by their property values (PROP,...)")
}

// propOptions are the options shared by create and update commands.
type propOptions struct {
	props []string
	file  string
}

func addPropFlags(cmd *cobra.Command, o *propOptions) {
	cmd.Flags().StringArrayVar(&o.props, "prop", nil,
		"Set a property (NAME=VALUE, VALUE in YAML flow syntax); can be specified multiple times")
	cmd.Flags().StringVar(&o.file, "properties-file", "",
		"File with properties to set, in YAML or JSON format")
}

// parse merges the properties file with the --prop options; --prop wins
// on conflicts. Values are parsed as YAML scalars so numbers, booleans
// and null keep their types.
func (o *propOptions) parse() (map[string]any, error) {
	props := map[string]any{}
	if o.file != "" {
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("read properties file: %w", err)
		}
		if err := yaml.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("parse properties file %s: %w", o.file, err)
		}
	}
	for _, p := range o.props {
		name, rawValue, found := strings.Cut(p, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid property %q: expected NAME=VALUE", p)
		}
		var value any
		if err := yaml.Unmarshal([]byte(rawValue), &value); err != nil {
			value = rawValue
		}
		props[name] = value
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("no properties specified (--prop or --properties-file)")
	}
	return props, nil
}

// parseFilter converts a PROP=VALUE,... option into list query
// parameters for server-side filtering.
func parseFilter(filter string) (url.Values, error) {
	query := url.Values{}
	if filter == "" {
		return query, nil
	}
	for _, pair := range strings.Split(filter, ",") {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid filter %q: expected PROP=VALUE", pair)
		}
		query.Set(name, strings.Trim(value, `'"`))
	}
	return query, nil
}

// findByName locates a resource by name under a list URI. Name matching
// is delegated to the HMC via a filter query.
func findByName(ctx context.Context, s *client.Session, listURI, key, kind, name string) (map[string]any, error) {
	objs, err := s.ListObjects(ctx, listURI, key,
		url.Values{"name": []string{name}})
	if err != nil {
		return nil, err
	}
	for _, obj := range objs {
		if obj["name"] == name {
			return obj, nil
		}
	}
	return nil, &client.HTTPError{
		Method:  "GET",
		URI:     listURI,
		Status:  404,
		Reason:  1,
		Message: fmt.Sprintf("%s %q not found", kind, name),
	}
}

// findURIByName locates a resource by name and returns its URI.
func findURIByName(ctx context.Context, s *client.Session, listURI, key, kind, name string) (string, error) {
	obj, err := findByName(ctx, s, listURI, key, kind, name)
	if err != nil {
		return "", err
	}
	return resourceURI(obj, kind)
}

// resourceURI returns the canonical URI of a listed object. Top-level
// objects carry object-uri, element objects element-uri.
func resourceURI(obj map[string]any, kind string) (string, error) {
	if uri, ok := obj["object-uri"].(string); ok && uri != "" {
		return uri, nil
	}
	if uri, ok := obj["element-uri"].(string); ok && uri != "" {
		return uri, nil
	}
	return "", &client.ParseError{
		Message: fmt.Sprintf("%s object has no object-uri or element-uri property", kind),
	}
}

// listResources is the shared body of all list commands: list, optionally
// pull full properties, select columns, sort, render.
func (c *CmdContext) listResources(ctx context.Context, s *client.Session,
	listURI, key string, columns []string, opts listOptions) error {

	query, err := parseFilter(opts.filter)
	if err != nil {
		return err
	}
	objs, err := s.ListObjects(ctx, listURI, key, query)
	if err != nil {
		return err
	}

	if opts.namesOnly {
		columns = []string{"name"}
	}
	if opts.uri {
		columns = append(append([]string{}, columns...), "object-uri")
	}

	if opts.all {
		full := make([]map[string]any, 0, len(objs))
		for _, obj := range objs {
			uri, err := resourceURI(obj, key)
			if err != nil {
				return err
			}
			props, err := s.GetProperties(ctx, uri)
			if err != nil {
				return err
			}
			full = append(full, props)
		}
		objs = full
		columns = withRemainingColumns(columns, objs)
	}

	sortProps := []string{"name"}
	if opts.sort != "" {
		sortProps = strings.Split(opts.sort, ",")
	}
	sortObjects(objs, sortProps)

	rs := output.NewRecordSet(columns...)
	for _, obj := range objs {
		rec := output.Record{}
		for _, col := range columns {
			rec[col] = columnValue(obj, col)
		}
		rs.Append(rec)
	}
	return c.render(rs)
}

// uriListProperty extracts URI-list properties such as nic-uris from a
// parent resource.
func uriListProperty(props map[string]any, names ...string) []string {
	var uris []string
	for _, name := range names {
		list, ok := props[name].([]any)
		if !ok {
			continue
		}
		for _, v := range list {
			if uri, ok := v.(string); ok {
				uris = append(uris, uri)
			}
		}
	}
	return uris
}

// findElementURI locates an element object by name among its URIs.
// Element objects have no list operation, so each candidate is fetched.
func findElementURI(ctx context.Context, s *client.Session,
	uris []string, kind, name string) (string, error) {

	for _, uri := range uris {
		props, err := s.GetProperties(ctx, uri)
		if err != nil {
			return "", err
		}
		if props["name"] == name {
			return uri, nil
		}
	}
	return "", &client.HTTPError{
		Method:  "GET",
		URI:     "",
		Status:  404,
		Reason:  1,
		Message: fmt.Sprintf("%s %q not found", kind, name),
	}
}

// listElements is the list command body for element objects reachable
// only through a parent's URI-list property.
func (c *CmdContext) listElements(ctx context.Context, s *client.Session,
	uris []string, columns []string, opts listOptions) error {

	if opts.namesOnly {
		columns = []string{"name"}
	}
	if opts.uri {
		columns = append(append([]string{}, columns...), "element-uri")
	}
	objs := make([]map[string]any, 0, len(uris))
	for _, uri := range uris {
		props, err := s.GetProperties(ctx, uri)
		if err != nil {
			return err
		}
		objs = append(objs, props)
	}
	if opts.all {
		columns = withRemainingColumns(columns, objs)
	}
	sortProps := []string{"name"}
	if opts.sort != "" {
		sortProps = strings.Split(opts.sort, ",")
	}
	sortObjects(objs, sortProps)

	rs := output.NewRecordSet(columns...)
	for _, obj := range objs {
		rec := output.Record{}
		for _, col := range columns {
			rec[col] = obj[col]
		}
		rs.Append(rec)
	}
	return c.render(rs)
}

// columnValue resolves one column; the object-uri column falls back to
// element-uri for element objects.
func columnValue(obj map[string]any, col string) any {
	if col == "object-uri" {
		if _, ok := obj["object-uri"]; !ok {
			return obj["element-uri"]
		}
	}
	return obj[col]
}

// withRemainingColumns appends, in sorted order, every property present
// in any object that is not already a column.
func withRemainingColumns(columns []string, objs []map[string]any) []string {
	seen := map[string]bool{}
	for _, col := range columns {
		seen[col] = true
	}
	var extra []string
	for _, obj := range objs {
		for name := range obj {
			if !seen[name] {
				seen[name] = true
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)
	return append(append([]string{}, columns...), extra...)
}

// sortObjects sorts by the given properties with decreasing priority.
func sortObjects(objs []map[string]any, props []string) {
	sort.SliceStable(objs, func(i, j int) bool {
		for _, p := range props {
			p = strings.TrimSpace(p)
			a := fmt.Sprint(objs[i][p])
			b := fmt.Sprint(objs[j][p])
			if a != b {
				return a < b
			}
		}
		return false
	})
}

// showResource renders the full property set of one resource.
func (c *CmdContext) showResource(ctx context.Context, s *client.Session, uri string) error {
	props, err := s.GetProperties(ctx, uri)
	if err != nil {
		return err
	}
	return c.renderProperties(props)
}

// createResource POSTs to a list URI and reports the new resource.
func (c *CmdContext) createResource(ctx context.Context, s *client.Session,
	listURI, kind, name string, props map[string]any) error {

	if _, err := s.Post(ctx, listURI, props); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "New %s %s has been created.\n", kind, name)
	return nil
}

// updateResource POSTs a property update to a resource URI.
func (c *CmdContext) updateResource(ctx context.Context, s *client.Session,
	uri, kind, name string, props map[string]any) error {

	if err := s.UpdateProperties(ctx, uri, props); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s %s has been updated.\n", titleCase(kind), name)
	return nil
}

// deleteResource deletes a resource after confirmation.
func (c *CmdContext) deleteResource(ctx context.Context, s *client.Session,
	uri, kind, name string, yes bool) error {

	if !c.confirm(yes, fmt.Sprintf("Are you sure you want to delete %s %s?", kind, name)) {
		fmt.Fprintln(c.Out, "Aborted.")
		return nil
	}
	if err := s.Delete(ctx, uri); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s %s has been deleted.\n", titleCase(kind), name)
	return nil
}

// reportAction prints the completion message of a resource operation.
func (c *CmdContext) reportAction(kind, name, verb string) error {
	fmt.Fprintf(c.Out, "%s %s has been %s.\n", kind, name, verb)
	return nil
}

// action POSTs an operation request to a resource.
func (c *CmdContext) action(ctx context.Context, s *client.Session,
	uri, op string, body map[string]any) error {

	_, err := s.Post(ctx, uri+"/operations/"+op, body)
	return err
}

// titleCase upper-cases the first letter of a resource kind for
// messages.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// confirm asks on the terminal unless -y was given.
func (c *CmdContext) confirm(yes bool, prompt string) bool {
	if yes {
		return true
	}
	fmt.Fprintf(c.Err, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
