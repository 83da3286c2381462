package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
	"github.com/lintang-b-s/streetmap/pkg/server/rest/service"
	"github.com/lintang-b-s/streetmap/pkg/snap"
	"go.uber.org/zap"
)

type NavigationService interface {
	Penalty(right, left *float64) routingalgorithm.TurnPenalty
	TruckCapacity() float64
	ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64,
		penalty routingalgorithm.TurnPenalty) (routingalgorithm.PathResult, error)
	PathsToAll(ctx context.Context, start int32, dests []int32,
		penalty routingalgorithm.TurnPenalty) (map[int32]routingalgorithm.PathCost, error)
	PathTravelTime(ctx context.Context, segments []int32, penalty routingalgorithm.TurnPenalty) (float64, error)
	TurnType(ctx context.Context, a, b int32) (guidance.TurnType, error)
	CourierRouting(ctx context.Context, requests []courier.DeliveryRequest, depots []int32,
		penalty routingalgorithm.TurnPenalty, capacity float64) (courier.Route, error)
	NearestIntersections(ctx context.Context, lat, lon, radiusKm float64, k int) ([]snap.SnappedIntersection, error)
	NearestStreet(ctx context.Context, lat, lon float64) (service.NearestStreet, error)
}

type NavigationHandler struct {
	svc      NavigationService
	validate *validator.Validate
	trans    ut.Translator
	logger   *zap.Logger
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, logger *zap.Logger) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, validate: validate, trans: trans, logger: logger}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.ShortestPath)
			r.Post("/travel-time", handler.PathTravelTime)
			r.Post("/paths-to-all", handler.PathsToAll)
			r.Post("/turn-type", handler.TurnType)
			r.Post("/courier-routing", handler.CourierRouting)
			r.Post("/nearest-intersections", handler.NearestIntersections)
			r.Post("/nearest-street", handler.NearestStreet)
		})
	})
}

// bindAndValidate renders the error response itself and reports whether the handler may go on.
func (h *NavigationHandler) bindAndValidate(w http.ResponseWriter, r *http.Request, data render.Binder) bool {
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return false
	}
	if err := h.validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return false
	}
	return true
}

func (h *NavigationHandler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Debug("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	render.Render(w, r, ErrFromService(err))
}

// TurnPenaltyOverride model info
//
//	@Description	optional turn penalties in seconds, the server defaults are used when absent
type TurnPenaltyOverride struct {
	RightTurnPenalty *float64 `json:"right_turn_penalty,omitempty" validate:"omitempty,gte=0"`
	LeftTurnPenalty  *float64 `json:"left_turn_penalty,omitempty" validate:"omitempty,gte=0"`
}

// ShortestPathRequest model info
//
//	@Description	request body for the fastest route between two coordinates
type ShortestPathRequest struct {
	SrcLat float64 `json:"src_lat" validate:"gte=-90,lte=90"`
	SrcLon float64 `json:"src_lon" validate:"gte=-180,lte=180"`
	DstLat float64 `json:"dst_lat" validate:"gte=-90,lte=90"`
	DstLon float64 `json:"dst_lon" validate:"gte=-180,lte=180"`
	TurnPenaltyOverride
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// ShortestPathResponse model info
//
//	@Description	response body for the fastest route between two coordinates
type ShortestPathResponse struct {
	Path        string                      `json:"path"`
	TravelTime  float64                     `json:"travel_time"`
	Distance    float64                     `json:"distance"`
	Found       bool                        `json:"found"`
	Segments    []int32                     `json:"segments"`
	Navigations []guidance.DrivingDirection `json:"navigations"`
}

func RenderShortestPathResponse(res routingalgorithm.PathResult) *ShortestPathResponse {
	return &ShortestPathResponse{
		Path:        res.Polyline,
		TravelTime:  res.TravelTime,
		Distance:    res.Length,
		Found:       res.Found,
		Segments:    res.Segments,
		Navigations: res.Directions,
	}
}

// ShortestPath
//
//	@Summary		fastest route between two coordinates, turn penalties included
//	@Description	snaps both coordinates to the closest intersections and runs A* over the street network
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"request body shortest path"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	penalty := h.svc.Penalty(data.RightTurnPenalty, data.LeftTurnPenalty)
	res, err := h.svc.ShortestPath(r.Context(), data.SrcLat, data.SrcLon, data.DstLat, data.DstLon, penalty)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderShortestPathResponse(res))
}

// TravelTimeRequest model info
//
//	@Description	request body for the travel time of a street segment path
type TravelTimeRequest struct {
	Segments []int32 `json:"segments" validate:"required,min=1,dive,gte=0"`
	TurnPenaltyOverride
}

func (s *TravelTimeRequest) Bind(r *http.Request) error {
	return nil
}

// TravelTimeResponse model info
//
//	@Description	response body for the travel time of a street segment path
type TravelTimeResponse struct {
	TravelTime float64 `json:"travel_time"`
}

// PathTravelTime
//
//	@Summary		travel time of a street segment path
//	@Description	sum of segment travel times plus a penalty for every left and right turn
//	@Tags			navigations
//	@Param			body	body	TravelTimeRequest	true	"request body travel time"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/travel-time [post]
//	@Success		200	{object}	TravelTimeResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) PathTravelTime(w http.ResponseWriter, r *http.Request) {
	data := &TravelTimeRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	cost, err := h.svc.PathTravelTime(r.Context(), data.Segments, h.svc.Penalty(data.RightTurnPenalty, data.LeftTurnPenalty))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TravelTimeResponse{TravelTime: cost})
}

// PathsToAllRequest model info
//
//	@Description	request body for the fastest routes from one intersection to many
type PathsToAllRequest struct {
	Start        int32   `json:"start" validate:"gte=0"`
	Destinations []int32 `json:"destinations" validate:"required,min=1,dive,gte=0"`
	TurnPenaltyOverride
}

func (s *PathsToAllRequest) Bind(r *http.Request) error {
	return nil
}

// DestinationPath model info
//
//	@Description	fastest route to one destination. travel_time is -1 when it cannot be reached
type DestinationPath struct {
	Destination int32   `json:"destination"`
	Reachable   bool    `json:"reachable"`
	TravelTime  float64 `json:"travel_time"`
	Segments    []int32 `json:"segments"`
}

// PathsToAllResponse model info
//
//	@Description	response body for the fastest routes from one intersection to many
type PathsToAllResponse struct {
	Start int32             `json:"start"`
	Paths []DestinationPath `json:"paths"`
}

func RenderPathsToAllResponse(start int32, dests []int32, res map[int32]routingalgorithm.PathCost) *PathsToAllResponse {
	resp := &PathsToAllResponse{Start: start, Paths: make([]DestinationPath, 0, len(res))}
	seen := make(map[int32]struct{}, len(dests))
	for _, d := range dests {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}

		pc := res[d]
		dp := DestinationPath{Destination: d, Reachable: pc.Reachable, TravelTime: -1, Segments: pc.Path}
		if pc.Reachable {
			dp.TravelTime = pc.Cost
		}
		if dp.Segments == nil {
			dp.Segments = []int32{}
		}
		resp.Paths = append(resp.Paths, dp)
	}
	return resp
}

// PathsToAll
//
//	@Summary		fastest routes from one intersection to many
//	@Description	one dijkstra search that stops once every destination is settled
//	@Tags			navigations
//	@Param			body	body	PathsToAllRequest	true	"request body paths to all"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/paths-to-all [post]
//	@Success		200	{object}	PathsToAllResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) PathsToAll(w http.ResponseWriter, r *http.Request) {
	data := &PathsToAllRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	res, err := h.svc.PathsToAll(r.Context(), data.Start, data.Destinations,
		h.svc.Penalty(data.RightTurnPenalty, data.LeftTurnPenalty))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderPathsToAllResponse(data.Start, data.Destinations, res))
}

// TurnTypeRequest model info
//
//	@Description	request body for the turn between two street segments
type TurnTypeRequest struct {
	From int32 `json:"from_segment" validate:"gte=0"`
	To   int32 `json:"to_segment" validate:"gte=0"`
}

func (s *TurnTypeRequest) Bind(r *http.Request) error {
	return nil
}

// TurnTypeResponse model info
//
//	@Description	response body for the turn between two street segments
type TurnTypeResponse struct {
	TurnType string `json:"turn_type"`
}

// TurnType
//
//	@Summary		turn made when driving from one street segment into another
//	@Description	STRAIGHT, LEFT, RIGHT or NONE when the segments do not share an intersection
//	@Tags			navigations
//	@Param			body	body	TurnTypeRequest	true	"request body turn type"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/turn-type [post]
//	@Success		200	{object}	TurnTypeResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) TurnType(w http.ResponseWriter, r *http.Request) {
	data := &TurnTypeRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	turn, err := h.svc.TurnType(r.Context(), data.From, data.To)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TurnTypeResponse{TurnType: turn.String()})
}

// DeliveryRequestBody model info
//
//	@Description	one package to move from pick_up to drop_off
type DeliveryRequestBody struct {
	ID      int     `json:"id"`
	PickUp  int32   `json:"pick_up" validate:"gte=0"`
	DropOff int32   `json:"drop_off" validate:"gte=0"`
	Weight  float64 `json:"weight" validate:"gte=0"`
}

// CourierRoutingRequest model info
//
//	@Description	request body for the capacitated pickup and delivery route
type CourierRoutingRequest struct {
	Requests []DeliveryRequestBody `json:"requests" validate:"required,dive"`
	Depots   []int32               `json:"depots" validate:"required,min=1,dive,gte=0"`
	Capacity *float64              `json:"truck_capacity,omitempty" validate:"omitempty,gte=0"`
	TurnPenaltyOverride
}

func (s *CourierRoutingRequest) Bind(r *http.Request) error {
	return nil
}

// CourierRoutingResponse model info
//
//	@Description	response body for the capacitated pickup and delivery route. empty subpaths when no depot can serve every request
type CourierRoutingResponse struct {
	Route courier.Route `json:"route"`
}

// CourierRouting
//
//	@Summary		capacitated pickup and delivery route for one truck
//	@Description	greedy nearest stop route from the best depot, picking up and dropping off every package
//	@Tags			navigations
//	@Param			body	body	CourierRoutingRequest	true	"request body courier routing"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/courier-routing [post]
//	@Success		200	{object}	CourierRoutingResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) CourierRouting(w http.ResponseWriter, r *http.Request) {
	data := &CourierRoutingRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	requests := make([]courier.DeliveryRequest, 0, len(data.Requests))
	for _, req := range data.Requests {
		requests = append(requests, courier.NewDeliveryRequest(req.ID, req.PickUp, req.DropOff, req.Weight))
	}
	capacity := h.svc.TruckCapacity()
	if data.Capacity != nil {
		capacity = *data.Capacity
	}

	route, err := h.svc.CourierRouting(r.Context(), requests, data.Depots,
		h.svc.Penalty(data.RightTurnPenalty, data.LeftTurnPenalty), capacity)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &CourierRoutingResponse{Route: route})
}

// NearestIntersectionsRequest model info
//
//	@Description	request body for the intersections around a coordinate
type NearestIntersectionsRequest struct {
	Lat    float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon    float64 `json:"lon" validate:"gte=-180,lte=180"`
	Radius float64 `json:"radius" validate:"gt=0,lte=10"` // km
	K      int     `json:"k" validate:"gte=0"`
}

func (s *NearestIntersectionsRequest) Bind(r *http.Request) error {
	return nil
}

// NearestIntersectionsResponse model info
//
//	@Description	response body for the intersections around a coordinate, closest first
type NearestIntersectionsResponse struct {
	Intersections []snap.SnappedIntersection `json:"intersections"`
}

// NearestIntersections
//
//	@Summary		intersections within a radius of a coordinate
//	@Description	at most k intersections (all when k is 0) within radius km, closest first
//	@Tags			navigations
//	@Param			body	body	NearestIntersectionsRequest	true	"request body nearest intersections"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/nearest-intersections [post]
//	@Success		200	{object}	NearestIntersectionsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) NearestIntersections(w http.ResponseWriter, r *http.Request) {
	data := &NearestIntersectionsRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	items, err := h.svc.NearestIntersections(r.Context(), data.Lat, data.Lon, data.Radius, data.K)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &NearestIntersectionsResponse{Intersections: items})
}

// NearestStreetRequest model info
//
//	@Description	request body for the street closest to a coordinate
type NearestStreetRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (s *NearestStreetRequest) Bind(r *http.Request) error {
	return nil
}

// NearestStreet
//
//	@Summary		street segment closest to a coordinate
//	@Description	projection of the coordinate onto the closest street segment and its street name
//	@Tags			navigations
//	@Param			body	body	NearestStreetRequest	true	"request body nearest street"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/nearest-street [post]
//	@Success		200	{object}	service.NearestStreet
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) NearestStreet(w http.ResponseWriter, r *http.Request) {
	data := &NearestStreetRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	street, err := h.svc.NearestStreet(r.Context(), data.Lat, data.Lon)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &street)
}
