package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/item-booking-go/features/addcomment"
	"github.com/AntonStoeckl/item-booking-go/features/additem"
	"github.com/AntonStoeckl/item-booking-go/features/cancomment"
	"github.com/AntonStoeckl/item-booking-go/features/projectitem"
)

func (r *router) addItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.abortWithError(c, badRequest(ErrInvalidRequestBody, err))
		return
	}

	command := additem.BuildCommand(userIDFrom(c), req.Name, req.Description, *req.Available)

	item, err := r.handlers.AddItem.Handle(c.Request.Context(), command)
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusCreated, toItemResponse(item))
}

func (r *router) projectItem(c *gin.Context) {
	itemID, ok := r.pathID(c, "itemId")
	if !ok {
		return
	}

	view, err := r.handlers.ProjectItem.Handle(c.Request.Context(), projectitem.BuildQuery(itemID, userIDFrom(c), r.now()))
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusOK, toItemViewResponse(view))
}

func (r *router) canComment(c *gin.Context) {
	itemID, ok := r.pathID(c, "itemId")
	if !ok {
		return
	}

	eligible, err := r.handlers.CanComment.Handle(c.Request.Context(), cancomment.BuildQuery(userIDFrom(c), itemID, r.now()))
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusOK, canCommentResponse{CanComment: eligible})
}

func (r *router) addComment(c *gin.Context) {
	itemID, ok := r.pathID(c, "itemId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.abortWithError(c, badRequest(ErrInvalidRequestBody, err))
		return
	}

	command := addcomment.BuildCommand(userIDFrom(c), itemID, req.Text, r.now())

	comment, err := r.handlers.AddComment.Handle(c.Request.Context(), command)
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusCreated, toCommentResponse(comment))
}
