package feed

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"famshare/internal/common"
)

const maxUploadBytes = 64 << 20 // 64 MiB

type FeedHandler struct {
	service *FeedService
}

func NewFeedHandler(service *FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

// RegisterRoutes mounts the feed endpoints on the router.
func (h *FeedHandler) RegisterRoutes(r *mux.Router, auth *common.AuthMiddleware) {
	r.Handle("/posts", auth.OptionalAuth(http.HandlerFunc(h.listPosts))).Methods("GET")
	r.Handle("/posts", auth.RequireAuth(http.HandlerFunc(h.createPost))).Methods("POST")
	r.Handle("/posts/{id}", auth.OptionalAuth(http.HandlerFunc(h.getPost))).Methods("GET")
	r.Handle("/posts/{id}", auth.RequireAuth(http.HandlerFunc(h.updatePost))).Methods("PATCH")
	r.Handle("/posts/{id}", auth.RequireAuth(http.HandlerFunc(h.deletePost))).Methods("DELETE")

	r.Handle("/posts/{id}/like", auth.RequireAuth(http.HandlerFunc(h.addLike))).Methods("POST")
	r.Handle("/posts/{id}/like", auth.RequireAuth(http.HandlerFunc(h.removeLike))).Methods("DELETE")

	r.Handle("/posts/{id}/comments", auth.OptionalAuth(http.HandlerFunc(h.listComments))).Methods("GET")
	r.Handle("/posts/{id}/comments", auth.RequireAuth(http.HandlerFunc(h.addComment))).Methods("POST")
	r.Handle("/posts/{id}/comments/{commentId}", auth.RequireAuth(http.HandlerFunc(h.updateComment))).Methods("PATCH")
	r.Handle("/posts/{id}/comments/{commentId}", auth.RequireAuth(http.HandlerFunc(h.removeComment))).Methods("DELETE")
}

// --------- POSTS ---------

func (h *FeedHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := PostFilter{Type: q.Get("type")}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			common.WriteError(w, common.BadRequest("invalid year"))
			return
		}
		filter.Year = year
	}
	if c := q.Get("cursor"); c != "" {
		cursor, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			common.WriteError(w, common.BadRequest("invalid cursor"))
			return
		}
		filter.Cursor = cursor
	}

	limit := 0
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			common.WriteError(w, common.BadRequest("invalid limit"))
			return
		}
		limit = n
	}

	viewer, _ := common.IdentityFromContext(r.Context())
	page, err := h.service.ListPosts(r.Context(), filter, limit, viewer)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

type postDetail struct {
	*PostView
	Comments *CommentPage `json:"comments"`
}

func (h *FeedHandler) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	viewer, _ := common.IdentityFromContext(r.Context())
	view, err := h.service.GetPost(r.Context(), id, viewer)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	// first comment page rides along with the post detail
	comments, err := h.service.ListComments(r.Context(), id, 0)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, postDetail{PostView: view, Comments: comments})
}

type createPostForm struct {
	Type    string `validate:"required,oneof=IMAGE VIDEO"`
	Caption string `validate:"max=2000"`
}

func (h *FeedHandler) createPost(w http.ResponseWriter, r *http.Request) {
	claims, _ := common.IdentityFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.WriteError(w, common.BadRequest("invalid multipart form"))
		return
	}

	form := createPostForm{
		Type:    r.FormValue("type"),
		Caption: r.FormValue("caption"),
	}
	if err := common.ValidateStruct(form); err != nil {
		common.WriteError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, common.BadRequest("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		common.WriteError(w, common.Internal("failed to read upload", err))
		return
	}

	view, err := h.service.CreatePost(r.Context(), claims.UserID, form.Type, form.Caption,
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, view)
}

type updatePostRequest struct {
	Caption     *string `json:"caption" validate:"omitempty,max=2000"`
	IsPublished *bool   `json:"is_published"`
}

func (h *FeedHandler) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}

	view, err := h.service.UpdatePost(r.Context(), id, claims, req.Caption, req.IsPublished)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}

func (h *FeedHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	if err := h.service.DeletePost(r.Context(), id, claims); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --------- LIKES ---------

func (h *FeedHandler) addLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	if err := h.service.AddLike(r.Context(), id, claims.UserID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]bool{"liked": true})
}

func (h *FeedHandler) removeLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	if err := h.service.RemoveLike(r.Context(), id, claims.UserID); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --------- COMMENTS ---------

func (h *FeedHandler) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	var cursor int64
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor, err = strconv.ParseInt(c, 10, 64)
		if err != nil {
			common.WriteError(w, common.BadRequest("invalid cursor"))
			return
		}
	}

	page, err := h.service.ListComments(r.Context(), id, cursor)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *FeedHandler) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), id, claims.UserID, req.Content)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, comment)
}

func (h *FeedHandler) updateComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), commentID, claims.UserID, req.Content)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, comment)
}

func (h *FeedHandler) removeComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	claims, _ := common.IdentityFromContext(r.Context())

	if err := h.service.RemoveComment(r.Context(), commentID, claims.UserID); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, common.BadRequest("invalid " + name)
	}
	return id, nil
}
