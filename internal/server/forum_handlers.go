package server

import (
	"pawhaven/internal/models"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/forum/posts
// @Summary List forum posts
// @Description Ranked forum listing: pinned posts first, then by trend score, then newest
// @Tags forum
// @Produce json
// @Param category query string false "Filter by category"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Router /forum/posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Category: c.Query("category"),
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: s.viewerID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetTrending handles GET /api/forum/posts/trending
// @Summary Trending posts
// @Description Top posts by trend score across all categories
// @Tags forum
// @Produce json
// @Param limit query int false "Subset size"
// @Success 200 {array} models.Post
// @Failure 503 {object} models.ErrorResponse
// @Router /forum/posts/trending [get]
func (s *Server) GetTrending(c *fiber.Ctx) error {
	if s.flagDisabled(c, "trending") {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewFeatureUnavailableError("Trending is turned off"))
	}
	limit := c.QueryInt("limit", service.DefaultTrendingLimit)
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	posts, err := s.postService.Trending(c.UserContext(), limit, s.viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/forum/posts/:ref
// @Summary Get a single post
// @Description Resolves :ref as a canonical id when UUID-shaped, as a slug otherwise. Counts a view unless meta=1.
// @Tags forum
// @Produce json
// @Param ref path string true "Post id or slug"
// @Param meta query bool false "Metadata-only read, skips the view count"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/posts/{ref} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("ref"), s.viewerID(c),
		service.GetPostOptions{
			MetadataOnly: c.QueryBool("meta", false),
		})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/forum/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category,omitempty"`
		Slug     string `json:"slug,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		ViewerID: s.viewerID(c),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Slug:     req.Slug,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetComments handles GET /api/forum/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	comments, err := s.postService.GetComments(c.UserContext(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/forum/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.UserContext(), c.Params("id"), s.viewerID(c), req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ToggleReaction handles POST /api/forum/posts/:id/reaction
// @Summary Toggle a like
// @Description Moves the viewer's like to the opposite of currently_liked and returns the resulting state
// @Tags forum
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param request body object{currently_liked=bool} true "Client's view of the current state"
// @Success 200 {object} object{liked=bool}
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /forum/posts/{id}/reaction [post]
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	var req struct {
		CurrentlyLiked bool `json:"currently_liked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	liked, err := s.reactionService.Toggle(c.UserContext(), c.Params("id"), s.viewerID(c), req.CurrentlyLiked)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}
