package repository

import (
	"context"
	"fmt"
	"skillxchange_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type ConnectionRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewConnectionRepository(db *gorm.DB, rdb *redis.Client) *ConnectionRepository {
	return &ConnectionRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ConnectionRepository) Create(conn *model.Connection) error {
	err := r.DB.Create(conn).Error
	if err == nil {
		r.invalidate(conn.RequesterID, conn.ReceiverID)
	}
	return err
}

func (r *ConnectionRepository) FindByID(id uint) (*model.Connection, error) {
	var conn model.Connection
	err := r.DB.Preload("Requester").Preload("Receiver").First(&conn, id).Error
	return &conn, err
}

// FindBetween 查询两用户间任意方向的关系边
func (r *ConnectionRepository) FindBetween(a, b uint) (*model.Connection, error) {
	var conn model.Connection
	err := r.DB.Preload("Requester").Preload("Receiver").
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)", a, b, b, a).
		First(&conn).Error
	return &conn, err
}

func (r *ConnectionRepository) FindByUser(userID uint) ([]model.Connection, error) {
	var conns []model.Connection
	err := r.DB.Preload("Requester").Preload("Receiver").
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

func (r *ConnectionRepository) UpdateStatus(id uint, status model.ConnectionStatus) error {
	return r.DB.Model(&model.Connection{}).Where("id = ?", id).Update("status", status).Error
}

// ConnectedIDs 已建立关系的对端用户 ID 列表 (带缓存)
func (r *ConnectionRepository) ConnectedIDs(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.connectedIDsDB(userID)
	}

	key := fmt.Sprintf("skillxchange:connections:%d", userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.connectedIDsDB(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

func (r *ConnectionRepository) connectedIDsDB(userID uint) ([]uint, error) {
	var conns []model.Connection
	err := r.DB.Where("(requester_id = ? OR receiver_id = ?) AND status = ?",
		userID, userID, model.ConnectionConnected).Find(&conns).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(conns))
	for i := range conns {
		ids = append(ids, conns[i].OtherParty(userID))
	}
	return ids, nil
}

func (r *ConnectionRepository) invalidate(a, b uint) {
	if r.Redis == nil {
		return
	}
	r.Redis.Del(r.ctx, fmt.Sprintf("skillxchange:connections:%d", a))
	r.Redis.Del(r.ctx, fmt.Sprintf("skillxchange:connections:%d", b))
}

// InvalidateCache 状态变更后由服务层调用
func (r *ConnectionRepository) InvalidateCache(a, b uint) {
	r.invalidate(a, b)
}
