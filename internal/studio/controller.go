// Package studio holds the client-side try-on state: the outfit history,
// the selected pose and the wardrobe, plus the operations that change them.
package studio

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"giyinme/internal/domain"
	"giyinme/internal/imagegen"
	"giyinme/internal/wardrobe"
)

// Editor produces try-on renders as data URLs.
type Editor interface {
	BaseModel(ctx context.Context, photo imagegen.Image) (string, error)
	Composite(ctx context.Context, modelRef string, garment imagegen.Image) (string, error)
	PoseVariation(ctx context.Context, ref, pose string) (string, error)
}

// Persister stores a generated data URL and returns a durable URL.
type Persister interface {
	UploadGenerated(ctx context.Context, imageData string) (string, error)
}

// State is a point-in-time copy of the controller for rendering.
type State struct {
	History          []domain.OutfitLayer
	Index            int
	PoseIndex        int
	Wardrobe         []domain.WardrobeItem
	Loading          bool
	LoadingMessage   string
	Error            string
	DisplayImage     string
	ActiveGarmentIDs []string
	AvailablePoses   []string
}

// Controller owns the outfit history. Only one mutating request runs at a
// time; a second one is rejected with domain.ErrBusy. FinalizeModel and
// StartOver may run while a request is in flight: they bump the epoch and the
// request's result is dropped with domain.ErrSuperseded.
type Controller struct {
	editor    Editor
	persister Persister
	logger    zerolog.Logger
	defaults  []domain.WardrobeItem

	mu             sync.Mutex
	history        []domain.OutfitLayer
	index          int
	poseIndex      int
	wardrobe       []domain.WardrobeItem
	loading        bool
	loadingMessage string
	errMessage     string
	epoch          uint64
}

// NewController builds a controller. persister may be nil, in which case
// generated data URLs are kept as they are.
func NewController(editor Editor, persister Persister, items []domain.WardrobeItem, logger zerolog.Logger) *Controller {
	if len(items) == 0 {
		items = wardrobe.Defaults()
	}
	defaults := append([]domain.WardrobeItem(nil), items...)
	return &Controller{
		editor:    editor,
		persister: persister,
		logger:    logger,
		defaults:  defaults,
		wardrobe:  append([]domain.WardrobeItem(nil), defaults...),
	}
}

// FinalizeModel resets the history to a single base layer showing url.
func (c *Controller) FinalizeModel(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.history = []domain.OutfitLayer{{PoseImages: domain.NewPoseImages(Poses[0], url)}}
	c.index = 0
	c.poseIndex = 0
}

// CreateModel turns a user photo into the base model shot and finalizes it.
func (c *Controller) CreateModel(ctx context.Context, photo imagegen.Image) error {
	epoch, err := c.begin("Creating your model...")
	if err != nil {
		return err
	}
	url, err := c.editor.BaseModel(ctx, photo)
	if err == nil {
		url, err = c.persist(ctx, url)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.finish(epoch); err != nil {
		return err
	}
	if err != nil {
		c.fail(err, "Failed to create model")
		return err
	}
	c.history = []domain.OutfitLayer{{PoseImages: domain.NewPoseImages(Poses[0], url)}}
	c.index = 0
	c.poseIndex = 0
	return nil
}

// SelectGarment puts item on top of the active layer. If the next layer in
// history already wears item, the index simply moves forward.
func (c *Controller) SelectGarment(ctx context.Context, garment imagegen.Image, item domain.WardrobeItem) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	display := c.displayImage()
	if display == "" {
		c.mu.Unlock()
		return domain.ErrNoImage
	}
	if next := c.index + 1; next < len(c.history) && c.history[next].GarmentID() == item.ID {
		c.index = next
		c.poseIndex = 0
		c.mu.Unlock()
		return nil
	}
	base := c.index
	pose := Poses[c.poseIndex]
	epoch := c.start("Adding " + item.Name + "...")
	c.mu.Unlock()

	url, err := c.editor.Composite(ctx, display, garment)
	if err == nil {
		url, err = c.persist(ctx, url)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.finish(epoch); err != nil {
		return err
	}
	if err != nil {
		c.fail(err, "Failed to apply garment")
		return err
	}
	worn := item
	layer := domain.OutfitLayer{Garment: &worn, PoseImages: domain.NewPoseImages(pose, url)}
	c.history = append(c.history[:base+1:base+1], layer)
	c.index = base + 1
	c.poseIndex = 0
	if !wardrobe.Contains(c.wardrobe, item.ID) {
		c.wardrobe = append(c.wardrobe, item)
	}
	return nil
}

// RemoveLastGarment steps back one layer. The layer stays in history so it
// can be re-applied without regenerating.
func (c *Controller) RemoveLastGarment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == 0 {
		return
	}
	c.index--
	c.poseIndex = 0
}

// SelectPose shows pose newIndex for the active layer, generating it from
// the layer's first image when it does not exist yet.
func (c *Controller) SelectPose(ctx context.Context, newIndex int) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	if len(c.history) == 0 {
		c.mu.Unlock()
		return domain.ErrNoHistory
	}
	if newIndex < 0 || newIndex >= len(Poses) {
		c.mu.Unlock()
		return domain.ErrInvalidPose
	}
	if newIndex == c.poseIndex {
		c.mu.Unlock()
		return nil
	}
	pose := Poses[newIndex]
	layerIndex := c.index
	layer := c.history[layerIndex]
	if _, ok := layer.PoseImages.Get(pose); ok {
		c.poseIndex = newIndex
		c.mu.Unlock()
		return nil
	}
	source, ok := layer.PoseImages.First()
	if !ok || source == "" {
		c.errMessage = "No valid base image was found to change the pose."
		c.mu.Unlock()
		return domain.ErrNoSourceImage
	}
	prevPose := c.poseIndex
	epoch := c.start("Changing pose...")
	c.poseIndex = newIndex
	c.mu.Unlock()

	url, err := c.editor.PoseVariation(ctx, source, pose)
	if err == nil {
		url, err = c.persist(ctx, url)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.finish(epoch); err != nil {
		return err
	}
	if err != nil {
		c.poseIndex = prevPose
		c.fail(err, "Failed to change pose")
		return err
	}
	// Only FinalizeModel and StartOver replace history, and both bump the epoch.
	current := c.history[layerIndex]
	history := make([]domain.OutfitLayer, len(c.history))
	copy(history, c.history)
	history[layerIndex] = domain.OutfitLayer{Garment: current.Garment, PoseImages: current.PoseImages.With(pose, url)}
	c.history = history
	return nil
}

// StartOver clears the session and restores the default wardrobe. A request
// in flight keeps the loading flag until it returns.
func (c *Controller) StartOver() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.history = nil
	c.index = 0
	c.poseIndex = 0
	c.errMessage = ""
	c.wardrobe = append([]domain.WardrobeItem(nil), c.defaults...)
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMessage = ""
}

// ActiveLayers returns the layers up to and including the current index.
func (c *Controller) ActiveLayers() []domain.OutfitLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLayers()
}

// ActiveGarmentIDs returns the garment IDs of the active layers.
func (c *Controller) ActiveGarmentIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeGarmentIDs()
}

// DisplayImage returns the URL currently shown, or "" before a model exists.
func (c *Controller) DisplayImage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayImage()
}

// AvailablePoses lists the pose labels generated for the active layer.
func (c *Controller) AvailablePoses() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availablePoses()
}

// Wardrobe returns the garments known to the session.
func (c *Controller) Wardrobe() []domain.WardrobeItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.WardrobeItem(nil), c.wardrobe...)
}

// Snapshot copies the full state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		History:          append([]domain.OutfitLayer(nil), c.history...),
		Index:            c.index,
		PoseIndex:        c.poseIndex,
		Wardrobe:         append([]domain.WardrobeItem(nil), c.wardrobe...),
		Loading:          c.loading,
		LoadingMessage:   c.loadingMessage,
		Error:            c.errMessage,
		DisplayImage:     c.displayImage(),
		ActiveGarmentIDs: c.activeGarmentIDs(),
		AvailablePoses:   c.availablePoses(),
	}
}

func (c *Controller) activeLayers() []domain.OutfitLayer {
	if len(c.history) == 0 {
		return nil
	}
	return append([]domain.OutfitLayer(nil), c.history[:c.index+1]...)
}

func (c *Controller) activeGarmentIDs() []string {
	ids := []string{}
	for _, layer := range c.activeLayers() {
		if id := layer.GarmentID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Controller) displayImage() string {
	if len(c.history) == 0 {
		return ""
	}
	layer := c.history[c.index]
	if url, ok := layer.PoseImages.Get(Poses[c.poseIndex]); ok {
		return url
	}
	url, _ := layer.PoseImages.First()
	return url
}

func (c *Controller) availablePoses() []string {
	if len(c.history) == 0 {
		return []string{}
	}
	return c.history[c.index].PoseImages.Keys()
}

// begin takes the loading guard for an operation with no other precondition.
func (c *Controller) begin(message string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return 0, domain.ErrBusy
	}
	return c.start(message), nil
}

func (c *Controller) start(message string) uint64 {
	c.errMessage = ""
	c.loading = true
	c.loadingMessage = message
	return c.epoch
}

// finish releases the loading guard and reports whether the request started
// at epoch may still commit.
func (c *Controller) finish(epoch uint64) error {
	c.loading = false
	c.loadingMessage = ""
	if epoch != c.epoch {
		c.logger.Debug().Uint64("epoch", epoch).Msg("dropping result of superseded request")
		return domain.ErrSuperseded
	}
	return nil
}

func (c *Controller) fail(err error, context string) {
	c.errMessage = FriendlyError(err, context)
	c.logger.Warn().Err(err).Msg(context)
}

func (c *Controller) persist(ctx context.Context, dataURL string) (string, error) {
	if c.persister == nil {
		return dataURL, nil
	}
	return c.persister.UploadGenerated(ctx, dataURL)
}
