package comments

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"blog-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

var commentColumns = []string{"id", "content", "is_active", "post_id", "author_id", "parent_id", "created_at", "updated_at"}

var postColumns = []string{"id", "title", "slug", "content", "image", "status", "views_count", "author_id", "category_id", "created_at", "updated_at"}

var authorColumns = []string{"id", "username", "first_name", "last_name", "avatar"}

// expectCommentResponse couvre les deux requêtes de toCommentResponse:
// l'auteur puis le comptage des réponses actives
func expectCommentResponse(mock sqlmock.Sqlmock, authorID string, repliesCount int64) {
	mock.ExpectQuery(`SELECT id, username, first_name, last_name, avatar FROM "users"`).
		WillReturnRows(mock.NewRows(authorColumns).
			AddRow(authorID, "jdoe", "John", "Doe", ""))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments"`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(repliesCount))
}

func TestCreateComment_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WithArgs(postID, "published", 1).
		WillReturnRows(mock.NewRows(postColumns).
			AddRow(postID, "Hello", "hello", "Body", "", "published", 0, userID, nil, now, now))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("comment-uuid"))
	mock.ExpectCommit()

	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.POST("/comments", func(c *gin.Context) {
		c.Set("user_id", userID)
		CreateComment(c)
	})

	body, _ := json.Marshal(map[string]string{
		"postId":  postID,
		"content": "hi",
	})

	req, _ := http.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response struct {
		Comment struct {
			ID       string `json:"id"`
			Content  string `json:"content"`
			IsActive bool   `json:"isActive"`
			IsReply  bool   `json:"isReply"`
			Author   struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"comment"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Equal(t, "comment-uuid", response.Comment.ID)
	assert.Equal(t, "hi", response.Comment.Content)
	assert.True(t, response.Comment.IsActive)
	assert.False(t, response.Comment.IsReply)
	assert.Equal(t, "jdoe", response.Comment.Author.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_DraftPost_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()

	// Un post en brouillon n'est pas visible: aucune ligne, aucune écriture
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WithArgs(postID, "published", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.POST("/comments", func(c *gin.Context) {
		c.Set("user_id", uuid.NewString())
		CreateComment(c)
	})

	body, _ := json.Marshal(map[string]string{
		"postId":  postID,
		"content": "hi",
	})

	req, _ := http.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Post not found", respBody["error"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_Reply_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	parentID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WithArgs(postID, "published", 1).
		WillReturnRows(mock.NewRows(postColumns).
			AddRow(postID, "Hello", "hello", "Body", "", "published", 0, userID, nil, now, now))

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WithArgs(parentID, 1).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(parentID, "root comment", true, postID, userID, nil, now, now))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("reply-uuid"))
	mock.ExpectCommit()

	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.POST("/comments", func(c *gin.Context) {
		c.Set("user_id", userID)
		CreateComment(c)
	})

	body, _ := json.Marshal(map[string]interface{}{
		"postId":   postID,
		"parentId": parentID,
		"content":  "a reply",
	})

	req, _ := http.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response struct {
		Comment struct {
			ID       string  `json:"id"`
			ParentID *string `json:"parentId"`
			IsReply  bool    `json:"isReply"`
		} `json:"comment"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Equal(t, "reply-uuid", response.Comment.ID)
	assert.NotNil(t, response.Comment.ParentID)
	assert.Equal(t, parentID, *response.Comment.ParentID)
	assert.True(t, response.Comment.IsReply)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ParentMismatch(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	otherPostID := uuid.NewString()
	parentID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WithArgs(postID, "published", 1).
		WillReturnRows(mock.NewRows(postColumns).
			AddRow(postID, "Hello", "hello", "Body", "", "published", 0, userID, nil, now, now))

	// Le parent appartient à un autre post: refus avant toute écriture
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WithArgs(parentID, 1).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(parentID, "elsewhere", true, otherPostID, userID, nil, now, now))

	r := testutils.SetupTestRouter()
	r.POST("/comments", func(c *gin.Context) {
		c.Set("user_id", userID)
		CreateComment(c)
	})

	body, _ := json.Marshal(map[string]interface{}{
		"postId":   postID,
		"parentId": parentID,
		"content":  "a reply",
	})

	req, _ := http.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Parent comment must belong to the same post", respBody["error"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ParentNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WithArgs(postID, "published", 1).
		WillReturnRows(mock.NewRows(postColumns).
			AddRow(postID, "Hello", "hello", "Body", "", "published", 0, userID, nil, now, now))

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.POST("/comments", func(c *gin.Context) {
		c.Set("user_id", userID)
		CreateComment(c)
	})

	body, _ := json.Marshal(map[string]interface{}{
		"postId":   postID,
		"parentId": uuid.NewString(),
		"content":  "a reply",
	})

	req, _ := http.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_EmptyContent(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/comments", func(c *gin.Context) {
		c.Set("user_id", uuid.NewString())
		CreateComment(c)
	})

	body, _ := json.Marshal(map[string]string{
		"postId":  uuid.NewString(),
		"content": "   ",
	})

	req, _ := http.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPostComments_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	rootID := uuid.NewString()
	replyID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WithArgs(postID, "published", 1).
		WillReturnRows(mock.NewRows(postColumns).
			AddRow(postID, "Hello", "hello", "Body", "", "published", 3, userID, nil, now, now))

	// Racines: les plus récentes d'abord
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE post_id = \$1 AND parent_id IS NULL AND is_active = \$2 ORDER BY created_at DESC`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(rootID, "hi", true, postID, userID, nil, now, now))

	// Réponses de la racine: les plus anciennes d'abord
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE parent_id = \$1 AND is_active = \$2 ORDER BY created_at ASC`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(replyID, "a reply", true, postID, userID, rootID, now, now))

	expectCommentResponse(mock, userID, 0) // la réponse B
	expectCommentResponse(mock, userID, 1) // la racine A

	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments"`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(2))

	r := testutils.SetupTestRouter()
	r.GET("/posts/:id/comments", GetPostComments)

	req, _ := http.NewRequest(http.MethodGet, "/posts/"+postID+"/comments", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		Post struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Slug  string `json:"slug"`
		} `json:"post"`
		Comments []struct {
			ID           string `json:"id"`
			RepliesCount int64  `json:"repliesCount"`
			Replies      []struct {
				ID      string `json:"id"`
				Content string `json:"content"`
			} `json:"replies"`
		} `json:"comments"`
		CommentCount int64 `json:"commentCount"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Equal(t, postID, response.Post.ID)
	assert.Equal(t, "hello", response.Post.Slug)
	assert.Len(t, response.Comments, 1)
	assert.Equal(t, rootID, response.Comments[0].ID)
	assert.Equal(t, int64(1), response.Comments[0].RepliesCount)
	assert.Len(t, response.Comments[0].Replies, 1)
	assert.Equal(t, replyID, response.Comments[0].Replies[0].ID)
	assert.Equal(t, int64(2), response.CommentCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPostComments_PostNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/posts/:id/comments", GetPostComments)

	req, _ := http.NewRequest(http.MethodGet, "/posts/"+uuid.NewString()+"/comments", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPostComments_DeactivatedRootHidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(mock.NewRows(postColumns).
			AddRow(postID, "Hello", "hello", "Body", "", "published", 0, userID, nil, now, now))

	// La racine désactivée a disparu du fil
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE post_id = \$1 AND parent_id IS NULL AND is_active = \$2`).
		WillReturnRows(mock.NewRows(commentColumns))

	// Sa réponse, restée active, compte toujours
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments"`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))

	r := testutils.SetupTestRouter()
	r.GET("/posts/:id/comments", GetPostComments)

	req, _ := http.NewRequest(http.MethodGet, "/posts/"+postID+"/comments", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		Comments     []interface{} `json:"comments"`
		CommentCount int64         `json:"commentCount"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Empty(t, response.Comments)
	assert.Equal(t, int64(1), response.CommentCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllComments_FilterByParent(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	parentID := uuid.NewString()
	replyID := uuid.NewString()
	now := time.Now()

	// Les réponses d'un parent désactivé restent accessibles par son id
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE is_active = \$1 AND parent_id = \$2`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(replyID, "still here", true, postID, userID, parentID, now, now))

	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.GET("/comments", GetAllComments)

	req, _ := http.NewRequest(http.MethodGet, "/comments?parent="+parentID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		Comments []struct {
			ID       string  `json:"id"`
			ParentID *string `json:"parentId"`
		} `json:"comments"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Len(t, response.Comments, 1)
	assert.Equal(t, replyID, response.Comments[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllComments_SearchAndOrdering(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE is_active = \$1 AND content ILIKE \$2 ORDER BY updated_at ASC`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(uuid.NewString(), "golang rocks", true, postID, userID, nil, now, now))

	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.GET("/comments", GetAllComments)

	req, _ := http.NewRequest(http.MethodGet, "/comments?search=golang&ordering=updated_at", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommentByID_RootWithReplies(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	rootID := uuid.NewString()
	replyID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1 AND is_active = \$2`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(rootID, "hi", true, postID, userID, nil, now, now))

	expectCommentResponse(mock, userID, 1)

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE parent_id = \$1 AND is_active = \$2 ORDER BY created_at ASC`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(replyID, "a reply", true, postID, userID, rootID, now, now))

	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.GET("/comments/:id", GetCommentByID)

	req, _ := http.NewRequest(http.MethodGet, "/comments/"+rootID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		Comment struct {
			ID      string `json:"id"`
			Replies []struct {
				ID string `json:"id"`
			} `json:"replies"`
		} `json:"comment"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Equal(t, rootID, response.Comment.ID)
	assert.Len(t, response.Comment.Replies, 1)
	assert.Equal(t, replyID, response.Comment.Replies[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommentByID_Inactive_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1 AND is_active = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/comments/:id", GetCommentByID)

	req, _ := http.NewRequest(http.MethodGet, "/comments/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateComment_Author_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	commentID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(commentID, "old content", true, postID, userID, nil, now, now))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.PUT("/comments/:id", func(c *gin.Context) {
		c.Set("user_id", userID)
		UpdateComment(c)
	})

	body, _ := json.Marshal(map[string]string{"content": "new content"})

	req, _ := http.NewRequest(http.MethodPut, "/comments/"+commentID, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		Comment struct {
			Content string `json:"content"`
		} `json:"comment"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)
	assert.Equal(t, "new content", response.Comment.Content)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateComment_NotAuthor_Forbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	authorID := uuid.NewString()
	commentID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(commentID, "not yours", true, postID, authorID, nil, now, now))

	r := testutils.SetupTestRouter()
	r.PUT("/comments/:id", func(c *gin.Context) {
		c.Set("user_id", uuid.NewString())
		UpdateComment(c)
	})

	body, _ := json.Marshal(map[string]string{"content": "hijack"})

	req, _ := http.NewRequest(http.MethodPut, "/comments/"+commentID, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "You can only edit your own comments", respBody["error"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComment_Author_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	commentID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(commentID, "bye", true, postID, userID, nil, now, now))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.DELETE("/comments/:id", func(c *gin.Context) {
		c.Set("user_id", userID)
		DeleteComment(c)
	})

	req, _ := http.NewRequest(http.MethodDelete, "/comments/"+commentID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["message"], "deleted permanently")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComment_NotAuthor_Forbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	authorID := uuid.NewString()
	commentID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(commentID, "not yours", true, postID, authorID, nil, now, now))

	r := testutils.SetupTestRouter()
	r.DELETE("/comments/:id", func(c *gin.Context) {
		c.Set("user_id", uuid.NewString())
		DeleteComment(c)
	})

	req, _ := http.NewRequest(http.MethodDelete, "/comments/"+commentID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommentReplies_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	parentID := uuid.NewString()
	replyID := uuid.NewString()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1 AND is_active = \$2`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(parentID, "hi", true, postID, userID, nil, now, now))

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE parent_id = \$1 AND is_active = \$2 ORDER BY created_at ASC`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(replyID, "a reply", true, postID, userID, parentID, now, now))

	expectCommentResponse(mock, userID, 0) // la réponse
	expectCommentResponse(mock, userID, 1) // le parent

	r := testutils.SetupTestRouter()
	r.GET("/comments/:id/replies", GetCommentReplies)

	req, _ := http.NewRequest(http.MethodGet, "/comments/"+parentID+"/replies", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		ParentComment struct {
			ID string `json:"id"`
		} `json:"parentComment"`
		Replies []struct {
			ID string `json:"id"`
		} `json:"replies"`
		RepliesCount int `json:"repliesCount"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Equal(t, parentID, response.ParentComment.ID)
	assert.Len(t, response.Replies, 1)
	assert.Equal(t, replyID, response.Replies[0].ID)
	assert.Equal(t, 1, response.RepliesCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommentReplies_InactiveParent_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1 AND is_active = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/comments/:id/replies", GetCommentReplies)

	req, _ := http.NewRequest(http.MethodGet, "/comments/"+uuid.NewString()+"/replies", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMyComments_IncludesInactive(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	postID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now()

	// Sans filtre is_active, l'auteur voit aussi ses commentaires désactivés
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE author_id = \$1 ORDER BY created_at DESC`).
		WillReturnRows(mock.NewRows(commentColumns).
			AddRow(uuid.NewString(), "visible", true, postID, userID, nil, now, now).
			AddRow(uuid.NewString(), "hidden", false, postID, userID, nil, now, now))

	expectCommentResponse(mock, userID, 0)
	expectCommentResponse(mock, userID, 0)

	r := testutils.SetupTestRouter()
	r.GET("/comments/my", func(c *gin.Context) {
		c.Set("user_id", userID)
		GetMyComments(c)
	})

	req, _ := http.NewRequest(http.MethodGet, "/comments/my", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response struct {
		Comments []struct {
			IsActive bool `json:"isActive"`
		} `json:"comments"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)

	assert.Len(t, response.Comments, 2)
	assert.True(t, response.Comments[0].IsActive)
	assert.False(t, response.Comments[1].IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkSetActive_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.PATCH("/comments/bulk-active", BulkSetActive)

	body, _ := json.Marshal(map[string]interface{}{
		"commentIds": []string{uuid.NewString(), uuid.NewString(), uuid.NewString()},
		"isActive":   false,
	})

	req, _ := http.NewRequest(http.MethodPatch, "/comments/bulk-active", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]int64
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, int64(3), respBody["updated"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkSetActive_EmptyIDs(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.PATCH("/comments/bulk-active", BulkSetActive)

	body, _ := json.Marshal(map[string]interface{}{
		"commentIds": []string{},
		"isActive":   true,
	})

	req, _ := http.NewRequest(http.MethodPatch, "/comments/bulk-active", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
