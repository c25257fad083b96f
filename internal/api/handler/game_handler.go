package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/service"
	"recruit-hub/backend/pkg/response"
)

// GameHandler 游戏模块 HTTP 处理器
type GameHandler struct {
	gameSvc service.GameService
	logger  *zap.Logger
}

// NewGameHandler 创建 GameHandler
func NewGameHandler(gameSvc service.GameService, logger *zap.Logger) *GameHandler {
	return &GameHandler{gameSvc: gameSvc, logger: logger}
}

// List 游戏列表
// GET /api/games
func (h *GameHandler) List(c *gin.Context) {
	list, err := h.gameSvc.List(c.Request.Context())
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.OK(c, list)
}

// Data 表单字典
// GET /api/games/data
func (h *GameHandler) Data(c *gin.Context) {
	data, err := h.gameSvc.Data(c.Request.Context())
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.OK(c, data)
}

// Get 游戏详情
// GET /api/games/:id
func (h *GameHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}
	g, err := h.gameSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.OK(c, g)
}

// Create 创建游戏（multipart）
// POST /api/games
func (h *GameHandler) Create(c *gin.Context) {
	form, ok := h.bindGameForm(c)
	if !ok {
		return
	}
	g, err := h.gameSvc.Create(c.Request.Context(), form)
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.Created(c, g)
}

// Update 更新游戏（multipart，未出现的字段保持不变）
// PUT/PATCH /api/games/:id
func (h *GameHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}
	form, ok := h.bindGameForm(c)
	if !ok {
		return
	}
	g, err := h.gameSvc.Update(c.Request.Context(), id, form)
	if err != nil {
		h.handleGameError(c, err)
		return
	}
	response.OK(c, g)
}

// Delete 删除游戏及其图片
// DELETE /api/games/:id
func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}
	if err := h.gameSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleGameError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *GameHandler) handleGameError(c *gin.Context, err error) {
	if writeValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		response.NotFound(c, "Game not found")
	default:
		h.logger.Error("游戏请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}

// ── 表单解析 ──

// bindGameForm 解析游戏表单
// 标量字段走 gin 表单绑定；数组字段兼容 key、key[] 与 key[N] 三种写法，
// 出现即视为提交（可为空以清空），未出现为 nil
func (h *GameHandler) bindGameForm(c *gin.Context) (*dto.GameForm, bool) {
	form := &dto.GameForm{}
	if err := c.ShouldBindWith(form, binding.Form); err != nil {
		writeBindError(c, err)
		return nil, false
	}

	values := c.Request.PostForm
	var files map[string][]*multipart.FileHeader
	if mf := c.Request.MultipartForm; mf != nil {
		values = mf.Value
		files = mf.File
	}

	form.Genres = formList(values, "genres")
	form.Platforms = formList(values, "platforms")

	verr := &service.ValidationError{}

	if raw := strings.TrimSpace(firstValue(values, "links")); raw != "" {
		var links []dto.LinkInput
		if err := json.Unmarshal([]byte(raw), &links); err != nil {
			verr.Add("links", "The links must be a valid JSON string.")
		} else {
			form.Links = &links
		}
	}

	if keep := formList(values, "keep_screenshots"); keep != nil {
		ids := make([]uint, 0, len(*keep))
		for i, s := range *keep {
			if strings.TrimSpace(s) == "" {
				continue
			}
			id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				verr.Add(fmt.Sprintf("keep_screenshots.%d", i), fmt.Sprintf("The keep_screenshots.%d must be an integer.", i))
				continue
			}
			ids = append(ids, uint(id))
		}
		form.KeepScreenshots = &ids
	}

	var del dto.Accepted
	_ = del.UnmarshalParam(firstValue(values, "delete_main_image"))
	form.DeleteMainImage = bool(del)

	if fhs := fileList(files, "main_image"); len(fhs) > 0 {
		form.MainImage = fhs[0]
	}
	form.Screenshots = fileList(files, "screenshots")

	if err := verr.OrNil(); err != nil {
		writeValidation(c, err)
		return nil, false
	}
	return form, true
}

func firstValue(values url.Values, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// formList 收集 key / key[] / key[N] 的取值；key[N] 按 N 排序
func formList(values url.Values, key string) *[]string {
	var (
		out   []string
		found bool
	)
	for _, k := range []string{key, key + "[]"} {
		if v, ok := values[k]; ok {
			found = true
			for _, s := range v {
				if s != "" {
					out = append(out, s)
				}
			}
		}
	}
	for _, idx := range indexedKeys(keysOf(values), key) {
		found = true
		for _, s := range values[fmt.Sprintf("%s[%d]", key, idx)] {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	if !found {
		return nil
	}
	if out == nil {
		out = []string{}
	}
	return &out
}

// fileList 与 formList 相同的键规则，作用于上传文件
func fileList(files map[string][]*multipart.FileHeader, key string) []*multipart.FileHeader {
	if files == nil {
		return nil
	}
	var out []*multipart.FileHeader
	out = append(out, files[key]...)
	out = append(out, files[key+"[]"]...)
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	for _, idx := range indexedKeys(keys, key) {
		out = append(out, files[fmt.Sprintf("%s[%d]", key, idx)]...)
	}
	return out
}

func keysOf(values url.Values) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return keys
}

// indexedKeys 返回形如 key[N] 的全部 N，升序
func indexedKeys(keys []string, key string) []int {
	prefix := key + "["
	var idx []int
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, "]") {
			continue
		}
		n, err := strconv.Atoi(k[len(prefix) : len(k)-1])
		if err != nil || n < 0 {
			continue
		}
		idx = append(idx, n)
	}
	sort.Ints(idx)
	return idx
}
