package lab

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
)

// buildSchema 组一套故意千疮百孔的schema：没有任何鉴权，敏感字段全暴露，
// 报错信息把调用方的输入原样带回去（枚举用的oracle），留了个文档里看不见的调试字段
func buildSchema() (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.Int},
			"username": &graphql.Field{Type: graphql.String},
			"email":    &graphql.Field{Type: graphql.String},
			// 密码hash和api key就这么挂在schema上
			"password": &graphql.Field{Type: graphql.String},
			"apiKey":   &graphql.Field{Type: graphql.String},
			"role":     &graphql.Field{Type: graphql.String},
			"ssn":      &graphql.Field{Type: graphql.String},
		},
	})

	noteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Note",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.Int},
			"ownerId": &graphql.Field{Type: graphql.Int},
			"title":   &graphql.Field{Type: graphql.String},
			"body":    &graphql.Field{Type: graphql.String},
			"private": &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// 全量用户，连service账号一起倒出来
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return labUsers, nil
				},
			},
			// IDOR经典款：拿谁的id都给谁的数据
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if u := findUser(id); u != nil {
						return *u, nil
					}
					return nil, fmt.Errorf("user with id %d does not exist in table 'users'", id)
				},
			},
			// 别人的private笔记也照给
			"notes": &graphql.Field{
				Type: graphql.NewList(noteType),
				Args: graphql.FieldConfigArgument{
					"ownerId": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					owner, ok := p.Args["ownerId"].(int)
					if !ok {
						return labNotes, nil
					}
					out := make([]labNote, 0)
					for _, n := range labNotes {
						if n.OwnerID == owner {
							out = append(out, n)
						}
					}
					return out, nil
				},
			},
			// 枚举oracle：无效输入会被原样回显进错误消息
			"search": &graphql.Field{
				Type: graphql.NewList(userType),
				Args: graphql.FieldConfigArgument{
					"keyword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					keyword, _ := p.Args["keyword"].(string)
					if len(keyword) < 3 {
						return nil, fmt.Errorf("invalid search keyword %q: must be at least 3 characters", keyword)
					}
					out := make([]labUser, 0)
					for _, u := range labUsers {
						if strings.Contains(u.Username, keyword) || strings.Contains(u.Email, keyword) {
							out = append(out, u)
						}
					}
					return out, nil
				},
			},
			// 内部配置一锅端
			"systemConfig": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out := make([]string, 0, len(labConfig))
					for k, v := range labConfig {
						out = append(out, k+"="+v)
					}
					return out, nil
				},
			},
			// 文档里刻意没提的调试字段，靠wordlist才炸得出来
			"_debugDump": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return fmt.Sprintf("users=%d notes=%d jwt_secret=%s",
						len(labUsers), len(labNotes), labConfig["jwt_secret"]), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			// 登录失败的报错区分"没这个用户"和"密码不对"，用户名枚举白送
			"login": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["username"].(string)
					u := findUserByName(name)
					if u == nil {
						return nil, fmt.Errorf("unknown user %q", name)
					}
					return nil, fmt.Errorf("wrong password for user %q", name)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
