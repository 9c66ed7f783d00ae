package notion

import (
	"context"
	"strconv"
)

const (
	v1Databases     = "/databases"
	v1Database      = "/databases/{id}"
	v1DatabaseQuery = "/databases/{id}/query"
	v1Pages         = "/pages"
	v1Page          = "/pages/{id}"
	v1Block         = "/blocks/{id}"
	v1BlockChildren = "/blocks/{id}/children"
)

// QueryDatabase returns one page of rows of a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, args QueryArgs) (*QueryResult, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	resp, err := r.
		SetPathParam("id", databaseID).
		SetBody(&args).
		SetSuccessResult(&result).
		Post(v1DatabaseQuery)
	if err := handleAPIError(resp, err, "database query"); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryAll walks every page of a query until the API reports no more results.
func (c *Client) QueryAll(ctx context.Context, databaseID string, filter any, sorts []Sort) ([]*Page, error) {
	var pages []*Page
	args := QueryArgs{Filter: filter, Sorts: sorts, PageSize: PageSize}
	for {
		result, err := c.QueryDatabase(ctx, databaseID, args)
		if err != nil {
			return nil, err
		}
		pages = append(pages, result.Results...)

		if !result.HasMore || result.NextCursor == nil || *result.NextCursor == "" {
			return pages, nil
		}
		args.StartCursor = *result.NextCursor
	}
}

// GetDatabase returns a database and its property schema.
func (c *Client) GetDatabase(ctx context.Context, databaseID string) (*Database, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var db Database
	resp, err := r.
		SetPathParam("id", databaseID).
		SetSuccessResult(&db).
		Get(v1Database)
	if err := handleAPIError(resp, err, "database get"); err != nil {
		return nil, err
	}
	return &db, nil
}

type createDatabaseRequest struct {
	Parent     *Parent                `json:"parent"`
	Title      []RichText             `json:"title"`
	Properties map[string]PropertyDef `json:"properties"`
}

// CreateDatabase creates a database under a page.
func (c *Client) CreateDatabase(ctx context.Context, parentPageID, title string, schema Schema) (*Database, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var db Database
	resp, err := r.
		SetBody(&createDatabaseRequest{
			Parent:     PageParent(parentPageID),
			Title:      AsTitle(title).Title,
			Properties: schema,
		}).
		SetSuccessResult(&db).
		Post(v1Databases)
	if err := handleAPIError(resp, err, "database create"); err != nil {
		return nil, err
	}
	return &db, nil
}

type updateDatabaseRequest struct {
	Properties map[string]PropertyDef `json:"properties"`
}

// UpdateDatabase adds or changes property definitions of a database.
func (c *Client) UpdateDatabase(ctx context.Context, databaseID string, schema Schema) (*Database, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var db Database
	resp, err := r.
		SetPathParam("id", databaseID).
		SetBody(&updateDatabaseRequest{Properties: schema}).
		SetSuccessResult(&db).
		Patch(v1Database)
	if err := handleAPIError(resp, err, "database update"); err != nil {
		return nil, err
	}
	return &db, nil
}

// GetPage returns a page with its properties.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var page Page
	resp, err := r.
		SetPathParam("id", pageID).
		SetSuccessResult(&page).
		Get(v1Page)
	if err := handleAPIError(resp, err, "page get"); err != nil {
		return nil, err
	}
	return &page, nil
}

type createPageRequest struct {
	Parent     *Parent             `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Children   []*Block            `json:"children,omitempty"`
}

// CreatePage creates a page under parent and returns it with its assigned id.
func (c *Client) CreatePage(ctx context.Context, parent *Parent, props map[string]Property, children []*Block) (*Page, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var page Page
	resp, err := r.
		SetBody(&createPageRequest{Parent: parent, Properties: props, Children: children}).
		SetSuccessResult(&page).
		Post(v1Pages)
	if err := handleAPIError(resp, err, "page create"); err != nil {
		return nil, err
	}
	return &page, nil
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties,omitempty"`
	Archived   *bool               `json:"archived,omitempty"`
}

// UpdatePage replaces the given properties of a page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props map[string]Property) (*Page, error) {
	return c.patchPage(ctx, pageID, &updatePageRequest{Properties: props})
}

// ArchivePage moves a page to the trash.
func (c *Client) ArchivePage(ctx context.Context, pageID string) (*Page, error) {
	archived := true
	return c.patchPage(ctx, pageID, &updatePageRequest{Archived: &archived})
}

// UpsertPage updates page when it has an id and creates it under parent otherwise.
func (c *Client) UpsertPage(ctx context.Context, parent *Parent, pageID string, props map[string]Property) (*Page, error) {
	if pageID == "" {
		return c.CreatePage(ctx, parent, props, nil)
	}
	return c.UpdatePage(ctx, pageID, props)
}

func (c *Client) patchPage(ctx context.Context, pageID string, body *updatePageRequest) (*Page, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var page Page
	resp, err := r.
		SetPathParam("id", pageID).
		SetBody(body).
		SetSuccessResult(&page).
		Patch(v1Page)
	if err := handleAPIError(resp, err, "page update"); err != nil {
		return nil, err
	}
	return &page, nil
}

// BlockChildren returns one page of the children of a block or page.
func (c *Client) BlockChildren(ctx context.Context, blockID, cursor string) (*BlockList, error) {
	r, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	r.SetPathParam("id", blockID).SetQueryParam("page_size", strconv.Itoa(PageSize))
	if cursor != "" {
		r.SetQueryParam("start_cursor", cursor)
	}

	var list BlockList
	resp, err := r.SetSuccessResult(&list).Get(v1BlockChildren)
	if err := handleAPIError(resp, err, "block children"); err != nil {
		return nil, err
	}
	return &list, nil
}

// AllBlockChildren walks every page of the children of a block.
func (c *Client) AllBlockChildren(ctx context.Context, blockID string) ([]*Block, error) {
	var blocks []*Block
	cursor := ""
	for {
		list, err := c.BlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, list.Results...)

		if !list.HasMore || list.NextCursor == nil || *list.NextCursor == "" {
			return blocks, nil
		}
		cursor = *list.NextCursor
	}
}

type appendChildrenRequest struct {
	Children []*Block `json:"children"`
}

// maxAppend is the largest number of blocks accepted per append call.
const maxAppend = 100

// AppendBlockChildren appends blocks below a block or page.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []*Block) error {
	for start := 0; start < len(children); start += maxAppend {
		end := min(start+maxAppend, len(children))

		r, err := c.request(ctx)
		if err != nil {
			return err
		}
		resp, err := r.
			SetPathParam("id", blockID).
			SetBody(&appendChildrenRequest{Children: children[start:end]}).
			Patch(v1BlockChildren)
		if err := handleAPIError(resp, err, "block append"); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBlock archives a block.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	r, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := r.SetPathParam("id", blockID).Delete(v1Block)
	return handleAPIError(resp, err, "block delete")
}

// ReplaceChildren removes every child of a block and appends children in their place.
func (c *Client) ReplaceChildren(ctx context.Context, blockID string, children []*Block) error {
	existing, err := c.AllBlockChildren(ctx, blockID)
	if err != nil {
		return err
	}
	for _, block := range existing {
		if err := c.DeleteBlock(ctx, block.ID); err != nil {
			return err
		}
	}
	return c.AppendBlockChildren(ctx, blockID, children)
}
