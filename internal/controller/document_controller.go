package controller

import (
	"fmt"
	"path/filepath"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentController 大纲附件上传与查询
type DocumentController struct {
	StorageService *service.StorageService
	DocumentRepo   *repository.DocumentRepository
}

func NewDocumentController(storageService *service.StorageService, documentRepo *repository.DocumentRepository) *DocumentController {
	return &DocumentController{
		StorageService: storageService,
		DocumentRepo:   documentRepo,
	}
}

// Upload godoc
// @Summary 上传大纲文档
// @Description 保存大纲附件并返回访问地址，附件可在后续引导提交中引用
// @Tags 文档
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "大纲文档"
// @Success 201 {object} util.Response{data=map[string]interface{}} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/documents/upload [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	existing, err := c.DocumentRepo.FindByUserID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(existing) >= util.MaxSyllabusDocuments {
		util.BadRequest(ctx, fmt.Sprintf("document limit reached (%d)", util.MaxSyllabusDocuments))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType, err := util.ValidateMimeType(file, util.SyllabusMimeTypes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	objectKey := fmt.Sprintf("syllabus/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
	url, err := c.StorageService.Upload(ctx.Request.Context(), objectKey, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	doc := &model.SyllabusDocument{
		UserID:      claims.UserID,
		Name:        fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		URL:         url,
	}
	if err := c.DocumentRepo.Create(doc); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"document": doc})
}

// List godoc
// @Summary 获取已上传文档
// @Tags 文档
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	docs, err := c.DocumentRepo.FindByUserID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"documents": docs})
}
